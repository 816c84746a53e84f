package telemetry

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"

	astar "github.com/pdrpinto/astargraph"
)

func TestInit_ExportsSolverSpans(t *testing.T) {
	previous := otel.GetTracerProvider()
	t.Cleanup(func() { otel.SetTracerProvider(previous) })

	var buf bytes.Buffer
	shutdown, err := Init(&buf, "test")
	require.NoError(t, err)

	g := astar.NewGraph[int]()
	a, b := g.AddNode(1), g.AddNode(2)
	g.AddUndirectedEdge(a, b, 1)
	_, err = astar.NewSolver(g, astar.Zero[int]()).Solve(context.Background(), a, b)
	require.NoError(t, err)

	require.NoError(t, shutdown(context.Background()))
	out := buf.String()
	assert.Contains(t, out, `"Name":"astar.Solve"`)
	assert.Contains(t, out, "astar.expanded")
	assert.Contains(t, out, ServiceName)
}

func TestInit_NilWriter(t *testing.T) {
	_, err := Init(nil, "test")
	assert.Error(t, err)
}
