package fsclient

import (
	"strings"
	"sync"
	"time"

	"github.com/marmos91/cachefs/pkg/extent"
	"github.com/marmos91/cachefs/pkg/fserrors"
	"github.com/marmos91/cachefs/pkg/lockclient"
	"github.com/marmos91/cachefs/pkg/lockproto"
)

// Attr is the filesystem-level view of an inode's attributes: a file's
// Size is the sum of its blocks' recorded sizes, a directory's Size is
// the size of its encoded block 0.
type Attr struct {
	Size  int64
	Atime time.Time
	Mtime time.Time
	Ctime time.Time
}

// Client is the filesystem-client block and directory layer: it turns
// inode-level operations into lock-serialized extent-service traffic.
type Client struct {
	locks   *lockclient.Cache
	extents extent.Client

	allocMu     sync.Mutex
	nextDirSeq  Inode
	nextFileSeq Inode
}

// NewClient constructs a filesystem client over locks (for coherence)
// and extents (for storage). Inode 1, the root directory, is created
// lazily on first access rather than here.
func NewClient(locks *lockclient.Cache, extents extent.Client) *Client {
	return &Client{
		locks:       locks,
		extents:     extents,
		nextDirSeq:  RootInode + 1,
		nextFileSeq: 1,
	}
}

// lockID maps an inode to the lock id that serializes mutations to it.
func lockID(i Inode) lockproto.LockID {
	return lockproto.LockID(i)
}

// allocDirInode returns the next unused directory inode number.
func (c *Client) allocDirInode() Inode {
	c.allocMu.Lock()
	defer c.allocMu.Unlock()
	i := c.nextDirSeq
	c.nextDirSeq++
	return i
}

// allocFileInode returns the next unused file inode number, with
// FileBit set.
func (c *Client) allocFileInode() Inode {
	c.allocMu.Lock()
	defer c.allocMu.Unlock()
	i := FileBit | c.nextFileSeq
	c.nextFileSeq++
	return i
}

// ensureRoot creates the root directory's block 0 if it does not exist
// yet. Safe to call repeatedly; a concurrent racer's Put simply
// overwrites with the same empty-directory bytes.
func (c *Client) ensureRoot() error {
	_, err := c.extents.GetAttr(BlockKey(RootInode, 0))
	if err == nil {
		return nil
	}
	// Over net/rpc the status arrives only as the error's text.
	if !fserrors.Is(err, fserrors.NOENT) && !strings.HasPrefix(err.Error(), fserrors.NOENT.String()) {
		return err
	}
	root := &directory{self: RootInode}
	return c.extents.Put(BlockKey(RootInode, 0), root.serialize())
}

// loadDirectory reads and parses dir's block 0.
func (c *Client) loadDirectory(dir Inode) (*directory, error) {
	if dir == RootInode {
		if err := c.ensureRoot(); err != nil {
			return nil, err
		}
	}
	data, err := c.extents.Get(BlockKey(dir, 0))
	if err != nil {
		return nil, err
	}
	return parseDirectory(data)
}

// storeDirectory serializes dir and writes it back to block 0.
func (c *Client) storeDirectory(dir *directory) error {
	return c.extents.Put(BlockKey(dir.self, 0), dir.serialize())
}

// IsFile reports whether inode names a file.
func (c *Client) IsFile(inode Inode) bool { return inode.IsFile() }

// IsDir reports whether inode names a directory.
func (c *Client) IsDir(inode Inode) bool { return inode.IsDir() }

// Lookup resolves name within dir, returning fserrors.NOENT if absent.
func (c *Client) Lookup(dir Inode, name string) (Inode, error) {
	d, err := c.loadDirectory(dir)
	if err != nil {
		return 0, err
	}
	inode, ok := d.lookup(name)
	if !ok {
		return 0, fserrors.New(fserrors.NOENT, "no entry %q in directory %d", name, dir)
	}
	return inode, nil
}

// GetDirContents returns dir's entries in on-disk order.
func (c *Client) GetDirContents(dir Inode) ([]DirEntry, error) {
	d, err := c.loadDirectory(dir)
	if err != nil {
		return nil, err
	}
	return d.entries, nil
}

// GetDir returns the attributes of directory dir's own block 0.
func (c *Client) GetDir(dir Inode) (Attr, error) {
	attr, err := c.extents.GetAttr(BlockKey(dir, 0))
	if err != nil {
		return Attr{}, err
	}
	return Attr(attr), nil
}

// GetFile returns a file's attributes: Size is the sum of block 0's
// recorded size plus the sizes of contiguous blocks 1, 2, … until a
// getattr returns NOENT. Ctime is taken from block 0 (stamped once, at
// creation); Atime/Mtime are taken from the highest-numbered block.
func (c *Client) GetFile(file Inode) (Attr, error) {
	var (
		total int64
		out   Attr
		seen  bool
	)
	for block := uint32(0); ; block++ {
		attr, err := c.extents.GetAttr(BlockKey(file, block))
		if err != nil {
			if fserrors.Is(err, fserrors.NOENT) {
				break
			}
			return Attr{}, err
		}
		if !seen {
			out.Ctime = attr.Ctime
			seen = true
		}
		out.Atime = attr.Atime
		out.Mtime = attr.Mtime
		total += attr.Size
	}
	if !seen {
		return Attr{}, fserrors.New(fserrors.NOENT, "file %d has no blocks", file)
	}
	out.Size = total
	return out, nil
}

// Read returns up to length bytes from file starting at offset, never
// returning more than is actually stored (short reads at end-of-file
// are not an error).
func (c *Client) Read(file Inode, offset int64, length int) ([]byte, error) {
	if length <= 0 || offset < 0 {
		return nil, nil
	}

	out := make([]byte, 0, length)
	remaining := length
	pos := offset

	for remaining > 0 {
		block := uint32(pos / BlockSize)
		blockOff := int(pos % BlockSize)

		data, err := c.extents.Get(BlockKey(file, block))
		if err != nil {
			if fserrors.Is(err, fserrors.NOENT) {
				break
			}
			return nil, err
		}
		if blockOff >= len(data) {
			break
		}

		n := len(data) - blockOff
		if n > remaining {
			n = remaining
		}
		out = append(out, data[blockOff:blockOff+n]...)
		remaining -= n
		pos += int64(n)

		if len(data) < BlockSize {
			break
		}
	}
	return out, nil
}
