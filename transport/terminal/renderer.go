package terminal

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/rocketscienceinc/connectfour/internal/entity"
)

// Renderer - hands animation requests from the orchestrator to the bubbletea loop.
// Only the newest request is kept: a request still queued when another arrives belongs
// to an abandoned game and its handle is already stale. RequestDropAnimation never
// blocks, so it is safe to call from inside Update.
type Renderer struct {
	mu       sync.Mutex
	requests chan entity.AnimationRequest
}

func NewRenderer() *Renderer {
	return &Renderer{
		requests: make(chan entity.AnimationRequest, 1),
	}
}

func (that *Renderer) RequestDropAnimation(req entity.AnimationRequest) {
	that.mu.Lock()
	defer that.mu.Unlock()

	select {
	case <-that.requests:
	default:
	}

	that.requests <- req
}

type animationStartedMsg entity.AnimationRequest

// waitForAnimation - blocks until the next request and delivers it as a message.
func (that *Renderer) waitForAnimation() tea.Cmd {
	return func() tea.Msg {
		return animationStartedMsg(<-that.requests)
	}
}
