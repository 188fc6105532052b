package ports

// FlagReader reads live flag values from a running game process. How the
// values are obtained (process memory, IPC, a simulation table) is up to the
// implementation; this repo ships only an in-process table reader.
type FlagReader interface {
	ReadFlag(flag uint32) (int32, error)
	ReadFlagState(flag uint32) (bool, error)
}
