package ecs

import "go.uber.org/zap"

// factory is a single exported value, Factory, fronting the package's
// constructors so call sites read as ecs.Factory.NewWorld(...) alongside
// the type-parameterized free functions generics forces out of the
// struct.
type factory struct{}

// Factory is the package's constructor namespace.
var Factory factory

// NewWorld constructs a world using cfg's capacities.
func (f factory) NewWorld(cfg WorldConfig) *World {
	return NewWorld(cfg)
}

// NewFilterBuilder starts an empty filter builder.
func (f factory) NewFilterBuilder() *FilterBuilder {
	return NewFilterBuilder()
}

// NewSystemGroup builds a group running members in the given order.
func (f factory) NewSystemGroup(members ...System) *SystemGroup {
	return NewSystemGroup(members...)
}

// NewZapDebugListener wraps logger as a DebugListener.
func (f factory) NewZapDebugListener(logger *zap.Logger) *ZapDebugListener {
	return NewZapDebugListener(logger)
}

// FactoryNewComponentType registers (or looks up) T and binds it to w's
// pool. Generic functions cannot be methods, so this lives alongside the
// factory value rather than on it.
func FactoryNewComponentType[T any](w *World, opts ...componentOption[T]) ComponentID[T] {
	return NewComponentType[T](w, opts...)
}

// FactoryNewOneFrameCleanupSystem builds a cleanup system for the marker
// component identified by id.
func FactoryNewOneFrameCleanupSystem[T any](id ComponentID[T]) *OneFrameCleanupSystem[T] {
	return NewOneFrameCleanupSystem[T](id)
}
