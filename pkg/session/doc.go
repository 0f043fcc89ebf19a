/*
Package session maps browser sessions onto one shared persistence backend.

Each session gets its own namespaced view of the backend and its own
chain.Store. Operations on the same session are serialized in-process (and
across replicas when a DistributedLocker is configured), so concurrent tabs
of one session never interleave a read-modify-write cycle: the last request
to finish wins.
*/
package session
