package async

// immediateValueNode is a leaf node that is ready the instant it is
// created, holding a value already in hand. Corresponds to the original
// implementation's ImmediatePromiseNode.
type immediateValueNode struct {
	result Result
}

func (n *immediateValueNode) onReady(event *Event) bool { return true }

func (n *immediateValueNode) get() Result { return n.result }

func (n *immediateValueNode) innerForTrace() promiseNode { return nil }

// immediateBrokenNode is a leaf node that is ready immediately with a
// rejection already recorded. Corresponds to the original
// implementation's ImmediateBrokenPromiseNode.
type immediateBrokenNode struct {
	err error
}

func (n *immediateBrokenNode) onReady(event *Event) bool { return true }

func (n *immediateBrokenNode) get() Result { return Result{Err: n.err} }

func (n *immediateBrokenNode) innerForTrace() promiseNode { return nil }
