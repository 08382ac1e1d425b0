package proxy

import (
	"context"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
	"resty.dev/v3"
)

// RelaySupplier hands out CORS relay prefixes in round-robin order
type RelaySupplier interface {
	Get() string
	Wrap(url string) string
}

type relaySupplier struct {
	relays  []string
	current int
	mutex   sync.Mutex
}

// NewRelaySupplier creates a supplier over the given relays without probing them
func NewRelaySupplier(relays []string) RelaySupplier {
	return &relaySupplier{relays: append([]string(nil), relays...)}
}

// NewValidatedRelaySupplier probes every relay against testURL in parallel and keeps the working ones
func NewValidatedRelaySupplier(ctx context.Context, relays []string, testURL string) RelaySupplier {
	if len(relays) == 0 {
		return &relaySupplier{relays: []string{}}
	}

	log.Infof("🔄 Testing %d relays in parallel...", len(relays))

	working := make([]bool, len(relays))
	semaphore := make(chan struct{}, 10)

	var wg sync.WaitGroup

	for i, relay := range relays {
		wg.Add(1)

		go func(index int, relay string) {
			defer wg.Done()

			semaphore <- struct{}{}
			defer func() { <-semaphore }()

			if isRelayValid(ctx, relay, testURL) {
				working[index] = true
				log.Infof("✅ Relay %s is working", relay)
			} else {
				log.Infof("❌ Relay %s is not working, skipping", relay)
			}
		}(i, relay)
	}

	wg.Wait()

	validRelays := make([]string, 0, len(relays))
	for i, relay := range relays {
		if working[i] {
			validRelays = append(validRelays, relay)
		}
	}

	log.Infof("✅ RelaySupplier initialized with %d working relays out of %d tested", len(validRelays), len(relays))

	return &relaySupplier{relays: validRelays}
}

// Get returns the next relay prefix, or "" when requests go direct
func (p *relaySupplier) Get() string {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	if len(p.relays) == 0 {
		return ""
	}

	relay := p.relays[p.current]
	p.current = (p.current + 1) % len(p.relays)

	return relay
}

// Wrap prefixes url with the next relay. Relays take the target URL verbatim.
func (p *relaySupplier) Wrap(url string) string {
	return p.Get() + url
}

func isRelayValid(ctx context.Context, relay, testURL string) bool {
	client := resty.New().
		SetTimeout(5 * time.Second).
		SetRetryCount(0)

	resp, err := client.R().
		SetContext(ctx).
		Get(relay + testURL)

	if err != nil {
		log.Infof("Relay test failed for %s: %v", relay, err)
		return false
	}

	if resp.IsError() {
		log.Infof("Relay test failed for %s with status: %s", relay, resp.Status())
		return false
	}

	return true
}
