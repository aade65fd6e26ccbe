package httpapi

import (
	"sync/atomic"

	"github.com/sirupsen/logrus"

	"jobs-portal/internal/config"
	"jobs-portal/internal/events"
	"jobs-portal/internal/portal"
	"jobs-portal/internal/store"
)

type Deps struct {
	Portal *portal.Service
	Store  *store.DB // optional
	Hub    *events.Hub
	Log    *logrus.Logger

	// Atomic stores
	CfgVal     *atomic.Value // stores config.Config
	PollStatus *atomic.Value // stores poll.Status

	// Config persistence
	UserCfgPath string
	LoadCfg     func() (config.Config, error)
}

func (d Deps) config() config.Config {
	if d.CfgVal == nil {
		return config.Default()
	}
	if c, ok := d.CfgVal.Load().(config.Config); ok {
		return c
	}
	return config.Default()
}
