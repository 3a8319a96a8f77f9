// Package fsclient implements the filesystem-client block and directory
// layer: the component that turns lookup/read/write/create/remove/resize
// operations into lock-serialized extent-service traffic.
package fsclient

import "github.com/marmos91/cachefs/pkg/extent"

// Inode is a 64-bit-namespaced identifier, represented here in its
// low-32-bit form (the half that actually varies; block keys pack it
// into the low bits of a 64-bit extent ID). The high bit distinguishes
// files from directories: set means file.
type Inode uint32

// FileBit marks an inode as a file rather than a directory.
const FileBit Inode = 1 << 31

// RootInode is the filesystem root directory's inode number. It is
// created lazily on first use, not at client construction.
const RootInode Inode = 1

// BlockSize is the fixed size, in bytes, of a file block.
const BlockSize = 1024

// IsFile reports whether i names a file.
func (i Inode) IsFile() bool { return i&FileBit != 0 }

// IsDir reports whether i names a directory.
func (i Inode) IsDir() bool { return !i.IsFile() }

// BlockKey returns the extent key for block number block of inode i:
// (block << 32) | i.
func BlockKey(i Inode, block uint32) extent.ID {
	return extent.ID(uint64(block)<<32 | uint64(i))
}
