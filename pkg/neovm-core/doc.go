// Package neovmcore is the public API over a Neo N3-compatible,
// deterministic stack-based execution core built for use inside a
// zero-knowledge proving environment.
//
// # Features
//
// - Bit-exact interpreter over a tagged, 9-variant stack value model
// - Bounded resource accounting: gas, stack depth, invocation depth, byte
//   and item caps, all fixed at construction time
// - A canonical, total byte encoding for every stack value (§6.5)
// - A deterministic execution trace with rolling stack/memory digests
// - A public-input binder producing the three-hash public commitment that
//   binds a proof to one execution (§4.6)
// - Pluggable storage, native-registry, and syscall capability traits
// - An opaque STARK prove/verify adapter over the three-hash public tuple
//
// # Quick start
//
//	cfg := neovmcore.DefaultEngineConfig().WithGasLimit(1_000_000)
//	storage := iface.NewMemoryStorage()
//	eng := neovmcore.NewEngine(cfg, storage, nil, nil)
//	eng.EnableTracing()
//
//	if err := eng.Load(program); err != nil {
//		log.Fatal(err)
//	}
//	for _, arg := range arguments {
//		if err := eng.Push(arg); err != nil {
//			log.Fatal(err)
//		}
//	}
//
//	report, err := eng.RunToEnd()
//	if err != nil {
//		log.Fatal(err)
//	}
//	tuple := neovmcore.ComputePublicTuple(program, arguments, cfg.GasLimit, report)
//
// # Proving a run
//
//	params := neovmcore.DefaultSTARKParameters()
//	result, tuple, err := neovmcore.Prove(params, cfg, storage, nil, nil, program, arguments, cfg.GasLimit)
//	if err != nil {
//		log.Fatal(err)
//	}
//	ok := neovmcore.Verify(params, result.ProofBytes, result.PublicBytes, tuple)
//
// # Architecture
//
// - pkg/neovm-core/: this package, the stable public API
// - internal/neovm-core/vm/: the engine itself (opcode dispatch, value
//   model, gas metering, trace recorder, capability trait definitions)
// - internal/neovm-core/iface/: reference capability-trait implementations
//   (in-memory storage, a map-keyed native registry, a dispatch-table
//   syscall hook)
// - internal/neovm-core/bind/: the public-tuple binder (§4.6)
// - internal/neovm-core/guest/: the zk-guest re-executor (§4.8)
// - internal/neovm-core/prove/: the opaque STARK prove/verify adapter
// - internal/neovm-core/{core,protocols,codes,utils}/: the underlying
//   field/FRI/Merkle/polynomial substrate, treated as an external library
//
// The assembler/disassembler, CLI front end beyond the minimal runner in
// cmd/neovm-run, storage backend persistence, and the ZK proving library's
// own soundness are out of scope for this module; this package only
// exposes the seams those collaborators plug into.
//
// # License
//
// See LICENSE file in the repository root.
package neovmcore
