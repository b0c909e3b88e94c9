// Pairwise CI/CD
//
// Package main provides reproducible builds and tests locally and in GitHub actions.
package main

import (
	"context"

	"dagger/pairwise/internal/dagger"
)

// Pairwise is the main module for the pairwise CI/CD pipeline
type Pairwise struct {
	// Project source directory
	//
	// +private
	Source *dagger.Directory
}

// New creates a new Pairwise CI/CD module instance
func New(
	// Project source directory.
	//
	// +defaultPath="/"
	// +ignore=[".git", ".direnv", "build", "tmp", "conversations_log.csv", ".pairwise"]
	source *dagger.Directory,
) *Pairwise {
	return &Pairwise{
		Source: source,
	}
}

// goContainer returns a Go container with the module caches and the project
// source mounted. pairwise has no cgo dependencies.
func (p *Pairwise) goContainer() *dagger.Container {
	return dag.Container().
		From("golang:1.25-alpine").
		WithEnvVariable("CGO_ENABLED", "0").
		WithMountedCache("/go/pkg/mod", dag.CacheVolume("go-mod")).
		WithMountedCache("/root/.cache/go-build", dag.CacheVolume("go-build")).
		WithWorkdir("/src").
		WithDirectory("/src", p.Source)
}

// Test runs the pairwise unit tests via "go test"
func (p *Pairwise) Test(ctx context.Context) (string, error) {
	return p.goContainer().
		WithExec([]string{"go", "test", "-v", "./..."}).
		Stdout(ctx)
}

// Vet runs "go vet" across the module
//
// +check
func (p *Pairwise) Vet(ctx context.Context) (string, error) {
	return p.goContainer().
		WithExec([]string{"go", "vet", "./..."}).
		Stdout(ctx)
}
