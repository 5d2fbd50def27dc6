package tree

// rotateLeft promotes the right child of n and returns it as the new
// subtree root.
func (n *treeNode[T]) rotateLeft() *treeNode[T] {
	if n.right == nil {
		panic("rotate left on a node without right child - should be impossible!")
	}
	newRoot := n.right
	n.right = newRoot.left
	newRoot.left = n

	// n is below newRoot now, so it goes first
	n.update()
	newRoot.update()
	return newRoot
}

// rotateRight promotes the left child of n and returns it as the new
// subtree root.
func (n *treeNode[T]) rotateRight() *treeNode[T] {
	if n.left == nil {
		panic("rotate right on a node without left child - should be impossible!")
	}
	newRoot := n.left
	n.left = newRoot.right
	newRoot.right = n

	n.update()
	newRoot.update()
	return newRoot
}

// rebalance restores the AVL balance of n, whose children are balanced and
// whose augmentation is current, and returns the new subtree root.
func (n *treeNode[T]) rebalance() *treeNode[T] {
	switch bf := n.balanceFactor(); {
	case bf < -1:
		// right heavy; a left leaning right child needs a double rotation
		if n.right.balanceFactor() > 0 {
			n.right = n.right.rotateRight()
		}
		return n.rotateLeft()
	case bf > 1:
		if n.left.balanceFactor() < 0 {
			n.left = n.left.rotateLeft()
		}
		return n.rotateRight()
	}
	return n
}
