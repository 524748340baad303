package ecs

import "go.uber.org/zap"

// DebugListener receives the six structural hook points a world can fire.
// A world holds zero or more listeners; every fire* method below is a
// no-op when the slice is empty, so an instrumented world costs nothing
// beyond the slice-length check when nobody is listening.
type DebugListener interface {
	OnEntityCreated(e Entity)
	OnEntityDestroyed(e Entity)
	OnFilterCreated(f *Filter)
	OnComponentListChanged(e Entity)
	OnWorldDestroyed(w *World)
	OnSystemsDestroyed(w *World)
}

func (w *World) fireEntityCreated(e Entity) {
	if len(w.debugListeners) == 0 {
		return
	}
	for _, l := range w.debugListeners {
		l.OnEntityCreated(e)
	}
}

func (w *World) fireEntityDestroyed(e Entity) {
	if len(w.debugListeners) == 0 {
		return
	}
	for _, l := range w.debugListeners {
		l.OnEntityDestroyed(e)
	}
}

func (w *World) fireFilterCreated(f *Filter) {
	if len(w.debugListeners) == 0 {
		return
	}
	for _, l := range w.debugListeners {
		l.OnFilterCreated(f)
	}
}

func (w *World) fireComponentListChanged(e Entity) {
	if len(w.debugListeners) == 0 {
		return
	}
	for _, l := range w.debugListeners {
		l.OnComponentListChanged(e)
	}
}

func (w *World) fireWorldDestroyed() {
	if len(w.debugListeners) == 0 {
		return
	}
	for _, l := range w.debugListeners {
		l.OnWorldDestroyed(w)
	}
}

func (w *World) fireSystemsDestroyed() {
	if len(w.debugListeners) == 0 {
		return
	}
	for _, l := range w.debugListeners {
		l.OnSystemsDestroyed(w)
	}
}

// ZapDebugListener writes every debug hook as a structured zap log line.
// Construct one with NewZapDebugListener and attach it via
// World.AddDebugListener; it fires only while DebugAssertions is true,
// giving the effect of being compiled out in release without an actual
// build-tag split.
type ZapDebugListener struct {
	logger *zap.Logger
}

// NewZapDebugListener wraps logger (use zap.NewNop() in tests that don't
// care about the output).
func NewZapDebugListener(logger *zap.Logger) *ZapDebugListener {
	return &ZapDebugListener{logger: logger}
}

func (z *ZapDebugListener) OnEntityCreated(e Entity) {
	if !DebugAssertions {
		return
	}
	z.logger.Debug("entity created", zap.Uint32("id", e.id), zap.Uint16("generation", e.generation))
}

func (z *ZapDebugListener) OnEntityDestroyed(e Entity) {
	if !DebugAssertions {
		return
	}
	z.logger.Debug("entity destroyed", zap.Uint32("id", e.id), zap.Uint16("generation", e.generation))
}

func (z *ZapDebugListener) OnFilterCreated(f *Filter) {
	if !DebugAssertions {
		return
	}
	z.logger.Debug("filter created",
		zap.Any("include", f.include),
		zap.Any("exclude", f.exclude),
		zap.Int("seeded", f.Len()),
	)
}

func (z *ZapDebugListener) OnComponentListChanged(e Entity) {
	if !DebugAssertions {
		return
	}
	z.logger.Debug("component list changed", zap.Uint32("id", e.id), zap.Int("count", e.ComponentCount()))
}

func (z *ZapDebugListener) OnWorldDestroyed(w *World) {
	if !DebugAssertions {
		return
	}
	z.logger.Debug("world destroyed", zap.Int("filters", len(w.filters)))
}

func (z *ZapDebugListener) OnSystemsDestroyed(w *World) {
	if !DebugAssertions {
		return
	}
	z.logger.Debug("systems destroyed")
}
