//go:build wireinject

package main

import (
	"github.com/google/wire"

	"github.com/janhq/image-generation-api/internal/config"
	"github.com/janhq/image-generation-api/internal/domain/imagegen"
	"github.com/janhq/image-generation-api/internal/infrastructure/fal"
	"github.com/janhq/image-generation-api/internal/interfaces/httpserver"
)

var generatorSet = wire.NewSet(
	fal.NewClient,
	wire.Bind(new(imagegen.Generator), new(*fal.Client)),
)

// BuildApplication assembles the service with Wire.
func BuildApplication() (*Application, error) {
	wire.Build(
		config.Load,
		newLogger,
		generatorSet,
		httpserver.New,
		NewApplication,
	)
	return nil, nil
}
