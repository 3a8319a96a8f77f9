package fsclient

import (
	"bufio"
	"bytes"
	"fmt"
	"strconv"
	"strings"
)

// DirEntry is one name-to-inode binding inside a directory block.
type DirEntry struct {
	Name  string
	Inode Inode
}

// directory is the in-memory form of a parsed directory block: the
// directory's own inode (redundant with the caller's knowledge of it,
// but carried through because serialize writes it as the header and
// storeDirectory uses it to address block 0) plus its entries in
// on-disk order.
type directory struct {
	self    Inode
	entries []DirEntry
}

// parseDirectory decodes the whitespace-delimited text format used for
// directory block 0: a header line holding the directory's own inode
// number, followed by one "<inode> <name>" pair per line.
func parseDirectory(data []byte) (*directory, error) {
	scanner := bufio.NewScanner(bytes.NewReader(data))
	if !scanner.Scan() {
		return &directory{}, nil
	}
	self, err := strconv.ParseUint(strings.TrimSpace(scanner.Text()), 10, 32)
	if err != nil {
		return nil, fmt.Errorf("fsclient: malformed directory header %q: %w", scanner.Text(), err)
	}

	d := &directory{self: Inode(self)}
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) != 2 {
			return nil, fmt.Errorf("fsclient: malformed directory entry %q", line)
		}
		inum, err := strconv.ParseUint(fields[0], 10, 32)
		if err != nil {
			return nil, fmt.Errorf("fsclient: malformed directory entry inode %q: %w", fields[0], err)
		}
		d.entries = append(d.entries, DirEntry{Name: fields[1], Inode: Inode(inum)})
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return d, nil
}

// serialize encodes d back into the whitespace-delimited text format.
func (d *directory) serialize() []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "%d\n", d.self)
	for _, e := range d.entries {
		fmt.Fprintf(&b, "%d %s\n", e.Inode, e.Name)
	}
	return []byte(b.String())
}

// lookup returns the inode bound to name, if any.
func (d *directory) lookup(name string) (Inode, bool) {
	for _, e := range d.entries {
		if e.Name == name {
			return e.Inode, true
		}
	}
	return 0, false
}

// add appends a new binding. Caller must have already checked name is
// not already bound.
func (d *directory) add(name string, inode Inode) {
	d.entries = append(d.entries, DirEntry{Name: name, Inode: inode})
}

// remove deletes the binding for name, reporting whether it existed.
func (d *directory) remove(name string) bool {
	for i, e := range d.entries {
		if e.Name == name {
			d.entries = append(d.entries[:i], d.entries[i+1:]...)
			return true
		}
	}
	return false
}
