package revtext

// Hooks lightweight callbacks for high-signal events.
// Implementations MUST be cheap and non-blocking; they run on the calling
// goroutine. Wrap with hooks/async to move work off the hot path.
type Hooks interface {
	// Encode or Decode refused its input.
	// op ∈ {"encode", "decode"}; reason ∈ {"too_large", "nul_byte", "length", "alphabet"}
	InputRejected(op string, size int, reason string)

	// The allocator refused a result buffer of size bytes.
	AllocationFailed(op string, size int)

	// Release protocol breach that the codec could detect.
	// reason ∈ {"double_release", "foreign_buffer"}
	OwnershipViolation(op, reason string)

	// A persisted entry was dropped on read.
	// reason ∈ {"corrupt", "config_mismatch", "value_decode"}
	SelfHeal(storageKey, reason string)

	// Provider returned ok=false on Set (backpressure/eviction).
	ProviderSetRejected(storageKey string)
}

// NopHooks is the default no-op
type NopHooks struct{}

func (NopHooks) InputRejected(string, int, string) {}
func (NopHooks) AllocationFailed(string, int)      {}
func (NopHooks) OwnershipViolation(string, string) {}
func (NopHooks) SelfHeal(string, string)           {}
func (NopHooks) ProviderSetRejected(string)        {}
