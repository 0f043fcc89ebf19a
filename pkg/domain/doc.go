/*
Package domain contains the core models of guided calculator chains.

It is kept free of I/O and persistence so that transition rules can be tested in
isolation.

# Key Entities

  - Chain: a configured, ordered list of calculator Steps.
  - ChainState: the runtime record of one in-progress chain (position,
    completed steps and shared data).
  - ChainEvent / LifecycleHooks: observability callbacks fired on transitions.

ChainState is persisted as a JSON object with exactly four fields (chainId,
currentStepIndex, completedSlugs, sharedData). DecodeState rejects anything
else with ErrCorruptState.
*/
package domain
