/*
Package chain implements the guided calculator chain state machine.

A Store keeps at most one chain in progress per backing key and exposes the
transitions the site needs:

	NoActiveChain --Start--> InProgress(chain, 0)
	InProgress(i) --Advance(steps[i])--> InProgress(i+1)   while steps remain
	InProgress(last) --Advance(steps[last])--> NoActiveChain   (complete)
	InProgress --Exit--> NoActiveChain

The state is persisted through a ports.KeyValueStore after every transition,
so the same Store works over session storage, Redis or files.
*/
package chain
