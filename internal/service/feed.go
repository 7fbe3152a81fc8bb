package service

import (
	"context"
	"log"
	"time"

	"github.com/venuenav/backend/internal/domain"
)

// simPath is the mock movement trace replayed in simulated-feed mode, a
// short indoor walk recorded at 2s intervals
var simPath = []domain.Location{
	{Latitude: 50.10574936554695, Longitude: 8.671309014326267, Accuracy: 5},
	{Latitude: 50.10570067068403, Longitude: 8.671242197773896, Accuracy: 5},
	{Latitude: 50.105675886069676, Longitude: 8.671190462733136, Accuracy: 5},
	{Latitude: 50.1056380411509, Longitude: 8.671192723225422, Accuracy: 5},
	{Latitude: 50.10560685694093, Longitude: 8.671219439428766, Accuracy: 5},
	{Latitude: 50.10558663551319, Longitude: 8.671242395027216, Accuracy: 5},
	{Latitude: 50.10555929583722, Longitude: 8.671269500653219, Accuracy: 5},
	{Latitude: 50.1055486636721, Longitude: 8.671309313452236, Accuracy: 5},
	{Latitude: 50.105529471135505, Longitude: 8.671347648769729, Accuracy: 5},
	{Latitude: 50.10550533833827, Longitude: 8.671431179162257, Accuracy: 5},
	{Latitude: 50.10553769701518, Longitude: 8.671479335497533, Accuracy: 5},
	{Latitude: 50.10555147443028, Longitude: 8.671498562487464, Accuracy: 5},
	{Latitude: 50.10554394385963, Longitude: 8.671524495790358, Accuracy: 5},
	{Latitude: 50.105562337713046, Longitude: 8.671577650731614, Accuracy: 5},
}

// BlueDotUpdater is the slice of the view the feed needs
type BlueDotUpdater interface {
	UpdateBlueDot(loc domain.Location)
}

// Feed is the live location source in simulated mode: it replays the mock
// movement trace into the location store on a fixed interval. The host push
// path and the feed are mutually exclusive by configuration, but the store's
// atomic overwrite does not rely on that.
type Feed struct {
	store    *LocationStore
	view     BlueDotUpdater
	interval time.Duration

	cancel context.CancelFunc
	done   chan struct{}
}

// NewFeed creates a simulated location feed
func NewFeed(store *LocationStore, view BlueDotUpdater, interval time.Duration) *Feed {
	if interval <= 0 {
		interval = 2 * time.Second
	}
	return &Feed{
		store:    store,
		view:     view,
		interval: interval,
	}
}

// Start launches the feed goroutine. Updates continue until Stop is called
// or the parent context is cancelled.
func (f *Feed) Start(ctx context.Context) {
	ctx, f.cancel = context.WithCancel(ctx)
	f.done = make(chan struct{})

	go func() {
		defer close(f.done)
		ticker := time.NewTicker(f.interval)
		defer ticker.Stop()

		idx := 0
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				loc := simPath[idx%len(simPath)]
				f.store.Update(loc)
				f.view.UpdateBlueDot(loc)
				idx++
			}
		}
	}()
	log.Printf("feed: simulated movement started (interval %s)", f.interval)
}

// Stop cancels the subscription and waits for the goroutine to exit, so no
// background updates leak past teardown
func (f *Feed) Stop() {
	if f.cancel == nil {
		return
	}
	f.cancel()
	<-f.done
	log.Println("feed: stopped")
}
