package fsclient

import (
	"github.com/marmos91/cachefs/internal/logger"
	"github.com/marmos91/cachefs/pkg/fserrors"
)

// CreateDir creates an empty subdirectory named name inside parent and
// returns its inode. It acquires parent's lock for the duration of the
// mutation.
func (c *Client) CreateDir(parent Inode, name string) (Inode, error) {
	lease, err := c.locks.Acquire(lockID(parent))
	if err != nil {
		return 0, err
	}
	defer c.locks.Release(lease)

	d, err := c.loadDirectory(parent)
	if err != nil {
		return 0, err
	}
	if _, ok := d.lookup(name); ok {
		return 0, fserrors.New(fserrors.EXIST, "entry %q already exists in directory %d", name, parent)
	}

	child := c.allocDirInode()
	empty := &directory{self: child}
	if err := c.extents.Put(BlockKey(child, 0), empty.serialize()); err != nil {
		return 0, err
	}

	d.add(name, child)
	if err := c.storeDirectory(d); err != nil {
		return 0, err
	}

	logger.Debug("fsclient: created directory", logger.Inode(uint32(child)))
	return child, nil
}

// CreateNode creates an empty file named name inside parent and returns
// its inode. It acquires parent's lock for the duration of the
// mutation.
func (c *Client) CreateNode(parent Inode, name string) (Inode, error) {
	lease, err := c.locks.Acquire(lockID(parent))
	if err != nil {
		return 0, err
	}
	defer c.locks.Release(lease)

	d, err := c.loadDirectory(parent)
	if err != nil {
		return 0, err
	}
	if _, ok := d.lookup(name); ok {
		return 0, fserrors.New(fserrors.EXIST, "entry %q already exists in directory %d", name, parent)
	}

	child := c.allocFileInode()
	if err := c.extents.Put(BlockKey(child, 0), nil); err != nil {
		return 0, err
	}

	d.add(name, child)
	if err := c.storeDirectory(d); err != nil {
		return 0, err
	}

	logger.Debug("fsclient: created file", logger.Inode(uint32(child)))
	return child, nil
}

// Write stores buf at offset within file, growing the file if the
// write extends past its current end. It acquires file's own lock for
// the duration of the mutation.
//
// A write spanning more than one block is split at block boundaries
// and applied one block at a time, since the extent service has no
// notion of a partial-block update beyond whole-blob Put.
func (c *Client) Write(file Inode, buf []byte, offset int64) (int, error) {
	if len(buf) == 0 {
		return 0, nil
	}

	lease, err := c.locks.Acquire(lockID(file))
	if err != nil {
		return 0, err
	}
	defer c.locks.Release(lease)

	written := 0
	pos := offset
	remaining := buf

	for len(remaining) > 0 {
		block := uint32(pos / BlockSize)
		blockOff := int(pos % BlockSize)

		existing, err := c.extents.Get(BlockKey(file, block))
		if err != nil && !fserrors.Is(err, fserrors.NOENT) {
			return written, err
		}

		n := BlockSize - blockOff
		if n > len(remaining) {
			n = len(remaining)
		}

		needed := blockOff + n
		if len(existing) < needed {
			grown := make([]byte, needed)
			copy(grown, existing)
			existing = grown
		}
		copy(existing[blockOff:blockOff+n], remaining[:n])

		if err := c.extents.Put(BlockKey(file, block), existing); err != nil {
			return written, err
		}

		written += n
		pos += int64(n)
		remaining = remaining[n:]
	}

	logger.Debug("fsclient: wrote file", logger.Inode(uint32(file)), logger.Size(int64(written)), logger.Offset(offset))
	return written, nil
}

// Setsize resizes file to exactly size bytes, truncating or
// zero-extending as needed. It acquires file's own lock for the
// duration of the mutation.
func (c *Client) Setsize(file Inode, size int64) error {
	lease, err := c.locks.Acquire(lockID(file))
	if err != nil {
		return err
	}
	defer c.locks.Release(lease)

	attr, err := c.GetFile(file)
	if err != nil {
		return err
	}

	switch {
	case size < attr.Size:
		return c.truncate(file, size)
	case size > attr.Size:
		return c.extend(file, attr.Size, size)
	default:
		return nil
	}
}

// truncate shrinks file to size bytes: blocks wholly past the new end
// are removed, and the new last block (if partial) is resized in
// place.
func (c *Client) truncate(file Inode, size int64) error {
	lastBlock := uint32(0)
	if size > 0 {
		lastBlock = uint32((size - 1) / BlockSize)
	}
	keepLen := int(size - int64(lastBlock)*BlockSize)

	if size > 0 {
		data, err := c.extents.Get(BlockKey(file, lastBlock))
		if err != nil {
			return err
		}
		if keepLen < len(data) {
			data = data[:keepLen]
		}
		if err := c.extents.Put(BlockKey(file, lastBlock), data); err != nil {
			return err
		}
	} else {
		if err := c.extents.Put(BlockKey(file, 0), nil); err != nil {
			return err
		}
	}

	for block := lastBlock + 1; ; block++ {
		if _, err := c.extents.GetAttr(BlockKey(file, block)); err != nil {
			if fserrors.Is(err, fserrors.NOENT) {
				break
			}
			return err
		}
		if err := c.extents.Remove(BlockKey(file, block)); err != nil {
			return err
		}
	}

	logger.Debug("fsclient: truncated file", logger.Inode(uint32(file)), logger.Size(size))
	return nil
}

// extend grows file from oldSize to newSize by zero-padding its
// current last block and materializing any additional blocks as
// zero-filled.
func (c *Client) extend(file Inode, oldSize, newSize int64) error {
	lastBlock := uint32(0)
	if oldSize > 0 {
		lastBlock = uint32((oldSize - 1) / BlockSize)
	}

	data, err := c.extents.Get(BlockKey(file, lastBlock))
	if err != nil && !fserrors.Is(err, fserrors.NOENT) {
		return err
	}

	newLastBlock := uint32((newSize - 1) / BlockSize)
	if newLastBlock == lastBlock {
		want := int(newSize - int64(lastBlock)*BlockSize)
		grown := make([]byte, want)
		copy(grown, data)
		return c.extents.Put(BlockKey(file, lastBlock), grown)
	}

	full := make([]byte, BlockSize)
	copy(full, data)
	if err := c.extents.Put(BlockKey(file, lastBlock), full); err != nil {
		return err
	}
	for block := lastBlock + 1; block < newLastBlock; block++ {
		if err := c.extents.Put(BlockKey(file, block), make([]byte, BlockSize)); err != nil {
			return err
		}
	}
	want := int(newSize - int64(newLastBlock)*BlockSize)
	if err := c.extents.Put(BlockKey(file, newLastBlock), make([]byte, want)); err != nil {
		return err
	}

	logger.Debug("fsclient: extended file", logger.Inode(uint32(file)), logger.Size(newSize))
	return nil
}

// UpdateTime refreshes inode's atime/mtime by re-writing its block 0
// unchanged. It acquires inode's own lock for the duration.
func (c *Client) UpdateTime(inode Inode) error {
	lease, err := c.locks.Acquire(lockID(inode))
	if err != nil {
		return err
	}
	defer c.locks.Release(lease)

	data, err := c.extents.Get(BlockKey(inode, 0))
	if err != nil {
		return err
	}
	return c.extents.Put(BlockKey(inode, 0), data)
}

// Unlink removes the entry named name from parent. If the entry is a
// directory, its contents are unlinked recursively first and its own
// lock is held for the duration, released before parent's (locks are
// released in reverse acquisition order). If the entry is a file, its
// blocks are removed first, and the entry is then dropped from parent.
func (c *Client) Unlink(parent Inode, name string) error {
	parentLease, err := c.locks.Acquire(lockID(parent))
	if err != nil {
		return err
	}
	defer c.locks.Release(parentLease)

	d, err := c.loadDirectory(parent)
	if err != nil {
		return err
	}
	target, ok := d.lookup(name)
	if !ok {
		return fserrors.New(fserrors.NOENT, "no entry %q in directory %d", name, parent)
	}

	if target.IsDir() {
		targetLease, err := c.locks.Acquire(lockID(target))
		if err != nil {
			return err
		}
		defer c.locks.Release(targetLease)

		children, err := c.loadDirectory(target)
		if err != nil {
			return err
		}
		for _, e := range children.entries {
			if err := c.unlinkChild(target, e.Name); err != nil {
				return err
			}
		}
		if err := c.extents.Remove(BlockKey(target, 0)); err != nil {
			return err
		}
	} else {
		if err := c.removeFileBlocks(target); err != nil {
			return err
		}
	}

	d.remove(name)
	if err := c.storeDirectory(d); err != nil {
		return err
	}

	logger.Debug("fsclient: unlinked", logger.Inode(uint32(target)))
	return nil
}

// unlinkChild removes name from dir (re-reading and re-storing dir's
// block 0) without locking dir: the caller already holds dir's lock as
// part of a recursive Unlink, and calling unlinkChild rather than
// Unlink is what keeps that lock from being taken twice. If the entry
// being removed is itself a directory, unlinkChild still acquires a
// fresh lock on it before descending into its contents — only the
// already-held parent lock is skipped, not each new recursion level's
// own target.
func (c *Client) unlinkChild(dir Inode, name string) error {
	d, err := c.loadDirectory(dir)
	if err != nil {
		return err
	}
	target, ok := d.lookup(name)
	if !ok {
		return nil
	}

	if target.IsDir() {
		targetLease, err := c.locks.Acquire(lockID(target))
		if err != nil {
			return err
		}

		children, err := c.loadDirectory(target)
		if err != nil {
			c.locks.Release(targetLease)
			return err
		}
		for _, e := range children.entries {
			if err := c.unlinkChild(target, e.Name); err != nil {
				c.locks.Release(targetLease)
				return err
			}
		}
		if err := c.extents.Remove(BlockKey(target, 0)); err != nil {
			c.locks.Release(targetLease)
			return err
		}
		c.locks.Release(targetLease)
	} else {
		if err := c.removeFileBlocks(target); err != nil {
			return err
		}
	}

	d.remove(name)
	return c.storeDirectory(d)
}

// removeFileBlocks removes every block of file, starting from its last
// block and working back to block 0, so a crash mid-removal never
// leaves a gap followed by a surviving higher-numbered block.
func (c *Client) removeFileBlocks(file Inode) error {
	var blocks []uint32
	for block := uint32(0); ; block++ {
		if _, err := c.extents.GetAttr(BlockKey(file, block)); err != nil {
			if fserrors.Is(err, fserrors.NOENT) {
				break
			}
			return err
		}
		blocks = append(blocks, block)
	}
	for i := len(blocks) - 1; i >= 0; i-- {
		if err := c.extents.Remove(BlockKey(file, blocks[i])); err != nil {
			return err
		}
	}
	return nil
}
