package compat

import (
	"fmt"

	"github.com/AlexandreIorio/dotlogs"
)

// Builder creates framework adapters sharing one service.
// It can use an existing *dotlogs.Service or create one rooted at a directory.
type Builder struct {
	service *dotlogs.Service
	dir     string
	err     error
}

// NewBuilder creates a new adapter builder
func NewBuilder() *Builder {
	return &Builder{}
}

// WithService specifies an existing service to use for the adapters.
// If this is set WithDirectory is ignored.
func (b *Builder) WithService(s *dotlogs.Service) *Builder {
	if s == nil {
		b.err = fmt.Errorf("dotlogs/compat: provided service cannot be nil")
		return b
	}
	b.service = s
	return b
}

// WithDirectory sets the directory of a new service, used only when no
// service is provided. The default is dotlogs.DefaultDirectory.
func (b *Builder) WithDirectory(dir string) *Builder {
	b.dir = dir
	return b
}

// getService resolves the service to be used, creating one if necessary
func (b *Builder) getService() (*dotlogs.Service, error) {
	if b.err != nil {
		return nil, b.err
	}
	if b.service != nil {
		return b.service, nil
	}

	dir := b.dir
	if dir == "" {
		dir = dotlogs.DefaultDirectory
	}
	s, err := dotlogs.New(dir)
	if err != nil {
		return nil, fmt.Errorf("dotlogs/compat: failed to create service: %w", err)
	}

	// Cache the new service for subsequent builds with this builder
	b.service = s
	return s, nil
}

// BuildGnet creates a gnet adapter
func (b *Builder) BuildGnet(opts ...GnetOption) (*GnetAdapter, error) {
	s, err := b.getService()
	if err != nil {
		return nil, err
	}
	return NewGnetAdapter(s, opts...), nil
}

// BuildFastHTTP creates a fasthttp adapter
func (b *Builder) BuildFastHTTP(opts ...FastHTTPOption) (*FastHTTPAdapter, error) {
	s, err := b.getService()
	if err != nil {
		return nil, err
	}
	return NewFastHTTPAdapter(s, opts...), nil
}

// BuildFiber creates a Fiber adapter
func (b *Builder) BuildFiber(opts ...FiberOption) (*FiberAdapter, error) {
	s, err := b.getService()
	if err != nil {
		return nil, err
	}
	return NewFiberAdapter(s, opts...), nil
}

// GetService returns the underlying service, creating it if needed
func (b *Builder) GetService() (*dotlogs.Service, error) {
	return b.getService()
}

// --- Example Usage ---
//
//	svc, err := dotlogs.New("logs")
//	if err != nil { /* handle error */ }
//	defer svc.Close()
//
//	builder := compat.NewBuilder().WithService(svc)
//
//	gnetLogger, _ := builder.BuildGnet()
//	go gnet.Run(events, "tcp://:9000", gnet.WithLogger(gnetLogger))
//
//	fasthttpLogger, _ := builder.BuildFastHTTP()
//	server := &fasthttp.Server{Handler: handler, Logger: fasthttpLogger}
//
// Editing logs/logs.toml while the servers run changes what the framework
// logs reach the console and files.
