package main

import (
	"context"
	"fmt"
	"path"

	"dagger/pairwise/internal/dagger"
)

// bucket is an S3-compatible destination for release artifacts.
type bucket struct {
	endpoint        *dagger.Secret
	name            *dagger.Secret
	accessKeyID     *dagger.Secret
	secretAccessKey *dagger.Secret
}

// withChecksums adds a SHA256SUMS file covering every pairwise binary in dir.
func (p *Pairwise) withChecksums(dir *dagger.Directory) *dagger.Directory {
	sums := dag.Container().
		From("alpine:3.20").
		WithDirectory("/artifacts", dir).
		WithWorkdir("/artifacts").
		WithExec([]string{"sh", "-c", "find . -type f -name pairwise | sort | xargs sha256sum > SHA256SUMS"}).
		File("/artifacts/SHA256SUMS")

	return dir.WithFile("SHA256SUMS", sums)
}

// publish syncs artifacts to the bucket under each prefix in turn.
func (p *Pairwise) publish(ctx context.Context, artifacts *dagger.Directory, dst bucket, prefixes ...string) error {
	name, err := dst.name.Plaintext(ctx)
	if err != nil {
		return fmt.Errorf("reading bucket name: %w", err)
	}
	endpoint, err := dst.endpoint.Plaintext(ctx)
	if err != nil {
		return fmt.Errorf("reading bucket endpoint: %w", err)
	}

	aws := dag.Container().
		From("amazon/aws-cli:latest").
		WithSecretVariable("AWS_ACCESS_KEY_ID", dst.accessKeyID).
		WithSecretVariable("AWS_SECRET_ACCESS_KEY", dst.secretAccessKey).
		WithEnvVariable("AWS_DEFAULT_REGION", "auto").
		WithDirectory("/artifacts", artifacts).
		WithWorkdir("/artifacts")

	for _, prefix := range prefixes {
		target := "s3://" + path.Join(name, "pairwise", prefix)
		if _, err := aws.
			WithExec([]string{"aws", "s3", "sync", ".", target, "--endpoint-url", endpoint}).
			Sync(ctx); err != nil {
			return fmt.Errorf("uploading pairwise %s: %w", prefix, err)
		}
	}
	return nil
}

// Release builds pairwise for every platform, adds checksums and uploads
// them under the version and under "latest"
func (p *Pairwise) Release(
	ctx context.Context,

	// Version string (e.g., "v0.3.0")
	version string,

	// Git commit SHA
	commit string,

	// Bucket endpoint URL
	endpoint *dagger.Secret,

	// Bucket name
	bucketName *dagger.Secret,

	// Bucket access key ID
	accessKeyID *dagger.Secret,

	// Bucket secret access key
	secretAccessKey *dagger.Secret,
) (*dagger.Directory, error) {
	artifacts := p.withChecksums(p.BuildRelease(ctx, version, commit))
	dst := bucket{endpoint: endpoint, name: bucketName, accessKeyID: accessKeyID, secretAccessKey: secretAccessKey}

	return artifacts, p.publish(ctx, artifacts, dst, version, "latest")
}

// Nightly builds pairwise from commit and uploads it under "nightly"
func (p *Pairwise) Nightly(
	ctx context.Context,

	// Git commit SHA
	commit string,

	// Bucket endpoint URL
	endpoint *dagger.Secret,

	// Bucket name
	bucketName *dagger.Secret,

	// Bucket access key ID
	accessKeyID *dagger.Secret,

	// Bucket secret access key
	secretAccessKey *dagger.Secret,
) (*dagger.Directory, error) {
	artifacts := p.withChecksums(p.BuildRelease(ctx, "nightly", commit))
	dst := bucket{endpoint: endpoint, name: bucketName, accessKeyID: accessKeyID, secretAccessKey: secretAccessKey}

	return artifacts, p.publish(ctx, artifacts, dst, "nightly")
}
