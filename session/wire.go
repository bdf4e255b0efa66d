//go:build wireinject
// +build wireinject

// The build tag makes sure the stub is not built in the final build.

package session

import (
	"github.com/google/wire"
	"go.uber.org/zap"

	"github.com/milk9111/duckling/config"
	"github.com/milk9111/duckling/selection"
)

// New builds a session for cfg.Project.
func New(cfg config.Config, log *zap.Logger, clip selection.Clipboard) (*Session, error) {
	wire.Build(ProviderSet)
	return nil, nil
}
