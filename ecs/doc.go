// Package ecs provides ECS adapters for backdrop's input signals.
//
// The primary adapter is [NewDonburiBridge], which subscribes to a
// [backdrop.InputSource] and republishes every raw event, plus the
// normalized signal state after it, into a [Donburi] world as typed events.
// Game systems can then react to the same pointer and scroll signals that
// drive the background.
//
// Usage:
//
//	bridge := ecs.NewDonburiBridge(world, host.Input)
//	defer bridge.Close()
//	ecs.SignalEventType.Subscribe(world, onSignal)
//	// once per Update:
//	events.ProcessAllEvents(world)
//
// [Donburi]: https://github.com/yohamta/donburi
package ecs
