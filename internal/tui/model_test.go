//nolint:testpackage // Test needs access to unexported fields
package tui

import (
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/vito/progrock"
	"google.golang.org/protobuf/types/known/timestamppb"
)

// stubTape is a TapeSource that never yields an update.
type stubTape struct{}

func (s *stubTape) Read() (*progrock.StatusUpdate, error) {
	return nil, nil
}

func TestModel_TapeUpdate_AddsRunningVertex(t *testing.T) {
	m := NewModel(&stubTape{})

	update := &progrock.StatusUpdate{
		Vertexes: []*progrock.Vertex{
			{Id: "1", Name: "cc -c main.c"},
		},
	}

	_, cmd := m.Update(MsgTapeUpdate{Update: update})

	assert.Len(t, m.vertices, 1)
	assert.Equal(t, "1", m.vertices[0].ID)
	assert.Equal(t, statusRunning, m.vertices[0].Status)
	assert.NotNil(t, cmd)
}

func TestModel_TapeUpdate_CompletesVertex(t *testing.T) {
	m := NewModel(&stubTape{})
	m.vertices = []VertexState{
		{ID: "1", Name: "cc -c main.c", Status: statusRunning},
	}

	now := timestamppb.New(time.Now())
	m.Update(MsgTapeUpdate{Update: &progrock.StatusUpdate{
		Vertexes: []*progrock.Vertex{
			{Id: "1", Name: "cc -c main.c", Completed: now},
		},
	}})

	assert.Equal(t, statusCompleted, m.vertices[0].Status)
}

func TestModel_TapeUpdate_FailedVertex(t *testing.T) {
	m := NewModel(&stubTape{})

	now := timestamppb.New(time.Now())
	msg := "exit status 1"
	m.Update(MsgTapeUpdate{Update: &progrock.StatusUpdate{
		Vertexes: []*progrock.Vertex{
			{Id: "1", Name: "link", Completed: now, Error: &msg},
		},
	}})

	assert.Equal(t, statusFailed, m.vertices[0].Status)
}

func TestModel_TapeUpdate_CachedVertex(t *testing.T) {
	m := NewModel(&stubTape{})

	m.Update(MsgTapeUpdate{Update: &progrock.StatusUpdate{
		Vertexes: []*progrock.Vertex{
			{Id: "1", Name: "link", Cached: true},
		},
	}})

	assert.Equal(t, statusCached, m.vertices[0].Status)
}

func TestModel_TapeEnded_Quits(t *testing.T) {
	m := NewModel(&stubTape{})

	_, cmd := m.Update(MsgTapeEnded{})
	assert.NotNil(t, cmd)
}

func TestModel_CtrlC_Quits(t *testing.T) {
	m := NewModel(&stubTape{})

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	assert.NotNil(t, cmd)
}

func TestModel_View(t *testing.T) {
	m := NewModel(&stubTape{})
	m.width = 80
	m.height = 20
	m.vertices = []VertexState{
		{ID: "1", Name: "compile", Status: statusCompleted},
		{ID: "2", Name: "link", Status: statusFailed},
		{ID: "3", Name: "assets", Status: statusCached},
	}

	output := m.View()

	assert.Contains(t, output, "compile")
	assert.Contains(t, output, "link")
	assert.Contains(t, output, "assets")
	assert.Contains(t, output, "✓")
	assert.Contains(t, output, "✗")
}

func TestModel_View_DropsOldestWhenOverflowing(t *testing.T) {
	m := NewModel(&stubTape{})
	m.height = 2
	m.vertices = []VertexState{
		{ID: "1", Name: "first", Status: statusCompleted},
		{ID: "2", Name: "second", Status: statusCompleted},
		{ID: "3", Name: "third", Status: statusRunning},
	}

	output := m.View()

	assert.False(t, strings.Contains(output, "first"))
	assert.Contains(t, output, "second")
	assert.Contains(t, output, "third")
}
