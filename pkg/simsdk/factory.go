package simsdk

import (
	"errors"
	"sync"

	"github.com/embedkit/zoom-embed/pkg/sdk"
)

// Factory creates simulated clients. Configure, when set, runs on every new
// client before it is handed out; tests use it to inject failures.
type Factory struct {
	Configure func(*Client)

	mu        sync.Mutex
	live      int
	created   int
	destroyed int
	last      *Client
}

func NewFactory() *Factory {
	return &Factory{}
}

func (f *Factory) CreateClient() sdk.Client {
	client := NewClient()
	if f.Configure != nil {
		f.Configure(client)
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.live++
	f.created++
	f.last = client
	return client
}

func (f *Factory) DestroyClient(client sdk.Client) error {
	sim, ok := client.(*Client)
	if !ok {
		return errors.New("foreign client instance")
	}
	sim.destroy()

	f.mu.Lock()
	defer f.mu.Unlock()
	f.live--
	f.destroyed++
	return nil
}

// Live returns the number of clients created but not yet destroyed.
func (f *Factory) Live() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.live
}

func (f *Factory) CreatedCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.created
}

func (f *Factory) DestroyedCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.destroyed
}

// LastClient returns the most recently created client.
func (f *Factory) LastClient() *Client {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.last
}
