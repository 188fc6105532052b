package ports

// Watcher is a producer: it polls live flag values, detects transitions, and
// appends one record per observed change to its flag storage.
type Watcher interface {
	BufferedEventFlags

	Start() error
	Stop() error
}
