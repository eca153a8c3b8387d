package interfaces

// StorageManager owns the persistent store and the storages built on it.
type StorageManager interface {
	KeyValueStorage() KeyValueStorage
	Close() error
}
