package preview

import (
	"context"

	"romcat/internal/catalog"
	"romcat/internal/errors"
	"romcat/internal/log"
)

// FetchAsync resolves entry in the background: local cache first, then the
// thumbnail service. A fetch already in flight is cancelled and waited for
// before this one starts, so at most one worker ever runs.
func (p *Pipeline) FetchAsync(e catalog.Entry) {
	p.slotMu.Lock()
	defer p.slotMu.Unlock()

	p.stopWorkerLocked()

	gen := p.begin(e, Loading)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	p.cancel = cancel
	p.done = done

	go func() {
		defer close(done)

		res := p.loadLocal(e)
		if res.Status != Ready {
			var err error
			res, err = p.fetch(ctx, e)
			if err != nil && ctx.Err() == nil && !errors.IsNotFound(err) {
				log.LogWithError(err).Debug("async preview fetch failed")
			}
		}
		if ctx.Err() != nil {
			return
		}
		p.finish(gen, res)
	}()
}

// Poll returns the current preview and whether no worker is running.
// It never blocks.
func (p *Pipeline) Poll() (Result, bool) {
	p.slotMu.Lock()
	done := p.done
	p.slotMu.Unlock()

	finished := true
	if done != nil {
		select {
		case <-done:
		default:
			finished = false
		}
	}
	return p.Current(), finished
}

// Wait blocks until the running worker, if any, has exited.
func (p *Pipeline) Wait() {
	p.slotMu.Lock()
	done := p.done
	p.slotMu.Unlock()
	if done != nil {
		<-done
	}
}

// Close stops the worker.
func (p *Pipeline) Close() {
	p.slotMu.Lock()
	defer p.slotMu.Unlock()
	p.stopWorkerLocked()
}

// stopWorkerLocked cancels the worker and waits for it. Caller holds slotMu.
func (p *Pipeline) stopWorkerLocked() {
	if p.cancel == nil {
		return
	}
	p.cancel()
	<-p.done
	p.cancel = nil
	p.done = nil
}
