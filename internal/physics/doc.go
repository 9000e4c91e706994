// Package physics defines the boundary between a sandbox session and the
// rigid-body engine that actually simulates it.
//
// The session never sees engine objects directly. It works with opaque
// handles and engine-neutral value types:
//
//   - [Vec2]: world-space vector
//   - [BodyID], [FixtureID], [JointID]: handles issued by the engine
//   - [Manifold]: contact geometry handed to pre-solve callbacks
//   - [Profile]: per-step timing summary
//   - [World]: the engine itself
//
// Implementations live in sub-packages: [b2] wraps Box2D and
// [physicstest] is an in-memory double for tests.
//
// # Callbacks
//
// A [World] calls its [ContactListener] from inside Step. Listeners must not
// create or destroy bodies while being called; sessions defer that work until
// Step has returned.
package physics
