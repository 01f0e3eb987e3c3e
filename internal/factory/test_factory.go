package factory

import (
	"time"

	"github.com/partywire/partywire/internal/broadcast"
	"github.com/partywire/partywire/internal/dependencies/mocks"
	"github.com/partywire/partywire/internal/gateway"
	"github.com/partywire/partywire/internal/registry"
	"github.com/partywire/partywire/internal/storage/memory"
	"github.com/partywire/partywire/internal/testutil"
	"github.com/partywire/partywire/internal/transport/transporttest"
)

// TestApp is the application graph with deterministic dependencies and a
// recording transport in place of the websocket hub
type TestApp struct {
	Storage    *memory.Storage
	MockClock  *mocks.MockClock
	MockRandom *mocks.MockRandom
	Transport  *transporttest.Recorder
	Registry   *registry.Registry
	Router     *broadcast.Router
	Gateway    *gateway.Gateway
}

// NewTestApp creates a fully wired TestApp
func NewTestApp() *TestApp {
	store := memory.New()
	logger := testutil.NopLogger()
	clk := mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	rnd := mocks.NewMockRandom()
	rec := transporttest.New()
	reg := registry.New(store, clk, rnd, logger)
	router := broadcast.New(rec, logger)
	gw := gateway.New(reg, router, logger)

	return &TestApp{
		Storage:    store,
		MockClock:  clk,
		MockRandom: rnd,
		Transport:  rec,
		Registry:   reg,
		Router:     router,
		Gateway:    gw,
	}
}
