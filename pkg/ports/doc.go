/*
Package ports defines the driven ports (interfaces) of calcchain.

These interfaces decouple chain progression from storage and configuration, so
that the same transition logic runs against browser-like session storage, a
Redis cluster, local files or an in-memory fake.

# Key Interfaces

  - KeyValueStore: get/set/remove of opaque values, the persistence capability.
  - ChainCatalog: resolves chain IDs to configured chains.
  - DistributedLocker: serializes access to one session across replicas.
*/
package ports
