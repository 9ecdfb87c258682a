package controllers

import (
	"context"
	"net/http"
	"sort"
	"time"

	"github.com/angelmondragon/pricing-engine/api/responses"
	"github.com/angelmondragon/pricing-engine/pkg/config"
	pkgerrors "github.com/angelmondragon/pricing-engine/pkg/errors"
	"github.com/angelmondragon/pricing-engine/pkg/logger"
)

const (
	envHeader    = "X-Pricing-Env"
	readyTimeout = 2 * time.Second
)

// Pinger is a dependency that can report reachability.
type Pinger interface {
	Ping(ctx context.Context) error
}

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(envHeader, cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady pings every dependency and answers 503 when any of them is down. Nil
// entries are skipped so optional dependencies can be passed unconditionally.
func HealthReady(cfg *config.Config, logg *logger.Logger, deps map[string]Pinger) http.HandlerFunc {
	names := make([]string, 0, len(deps))
	for name, dep := range deps {
		if dep != nil {
			names = append(names, name)
		}
	}
	sort.Strings(names)

	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(envHeader, cfg.App.Env)

		ctx, cancel := context.WithTimeout(r.Context(), readyTimeout)
		defer cancel()

		checks := make(map[string]string, len(names))
		down := false
		for _, name := range names {
			if err := deps[name].Ping(ctx); err != nil {
				down = true
				checks[name] = "unavailable"
				if logg != nil {
					logg.Error(logg.WithField(r.Context(), "dependency", name), "health.dependency_down", err)
				}
				continue
			}
			checks[name] = "ok"
		}

		if down {
			responses.WriteError(r.Context(), nil, w, pkgerrors.New(pkgerrors.CodeDependency, "dependency unavailable").
				WithDetails(map[string]any{"checks": checks}))
			return
		}
		responses.WriteSuccess(w, map[string]any{"status": "ready", "checks": checks})
	}
}
