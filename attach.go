package async

// attachmentNode forwards onReady/get to dep unchanged, but keeps a
// payload alive until it is cancelled or its result has been collected.
// Corresponds to the original implementation's AttachmentPromiseNodeBase:
// there, the payload's destructor runs when the node is dropped; here,
// since nothing in Go runs a destructor on a plain field, the payload is
// simply held by reference and released (set to nil) on cancel, which is
// enough to let the garbage collector reclaim it.
type attachmentNode struct {
	dep     promiseNode
	payload any
}

func (n *attachmentNode) onReady(event *Event) bool {
	return n.dep.onReady(event)
}

func (n *attachmentNode) get() Result {
	res := n.dep.get()
	n.payload = nil
	return res
}

func (n *attachmentNode) innerForTrace() promiseNode { return n.dep }

func (n *attachmentNode) cancel() {
	n.payload = nil
	cancelNode(n.dep)
}
