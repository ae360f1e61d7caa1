package archive

import (
	"bufio"
	"compress/flate"
	"encoding/binary"
	"io"
	"io/ioutil"
	"strings"

	"github.com/pkg/errors"
)

const (
	fileHeaderSignature      = 0x04034b50
	directoryHeaderSignature = 0x02014b50
	directoryEndSignature    = 0x06054b50
	dataDescriptorSignature  = 0x08074b50

	fileHeaderLen = 30

	methodStore   = 0
	methodDeflate = 8

	flagDataDescriptor = 0x8
)

// streamSource decodes local file headers sequentially from a forward-only
// byte stream, stopping once the central directory begins. Entry metadata
// not present in a local header (deferred to a data descriptor) is handled
// for deflated entries only; stored entries always carry their sizes up
// front in the containers this tool consumes.
type streamSource struct {
	br *bufio.Reader

	// state of the entry currently being consumed
	payload    io.Reader
	raw        io.Reader
	inflater   io.ReadCloser
	descriptor bool
}

func newStreamSource(r io.Reader) *streamSource {
	return &streamSource{br: bufio.NewReader(r)}
}

func (s *streamSource) Next() (entry Entry, payload io.Reader, done bool, err error) {
	err = s.finishEntry()
	if err != nil {
		return
	}

	head, perr := s.br.Peek(4)
	if perr == io.EOF {
		// no central directory at all; an empty stream counts as a
		// zero-entry container
		done = true
		return
	}
	if perr != nil {
		err = errors.Wrap(perr, "failed peeking next signature")
		return
	}

	switch sig := binary.LittleEndian.Uint32(head); sig {
	case fileHeaderSignature:
	case directoryHeaderSignature, directoryEndSignature:
		// every entry's metadata was already consumed along the way,
		// the central directory holds nothing new for us
		done = true
		return
	default:
		err = errors.Errorf("unrecognized signature %#x in archive stream", sig)
		return
	}

	entry, method, merr := s.readHeader()
	if merr != nil {
		err = merr
		return
	}

	if entry.Directory {
		return
	}

	payload, err = s.openPayload(entry, method)
	if err != nil {
		return
	}

	s.payload = payload
	return
}

// readHeader consumes one fixed-size local file header plus its name and
// extra field, leaving the reader at the first payload byte.
func (s *streamSource) readHeader() (entry Entry, method uint16, err error) {
	var buf [fileHeaderLen]byte

	_, err = io.ReadFull(s.br, buf[:])
	if err != nil {
		err = errors.Wrap(err, "failed reading local file header")
		return
	}

	flags := binary.LittleEndian.Uint16(buf[6:8])
	method = binary.LittleEndian.Uint16(buf[8:10])
	crc := binary.LittleEndian.Uint32(buf[14:18])
	csize := binary.LittleEndian.Uint32(buf[18:22])
	usize := binary.LittleEndian.Uint32(buf[22:26])
	nameLen := binary.LittleEndian.Uint16(buf[26:28])
	extraLen := binary.LittleEndian.Uint16(buf[28:30])

	name := make([]byte, nameLen)
	_, err = io.ReadFull(s.br, name)
	if err != nil {
		err = errors.Wrap(err, "failed reading entry name")
		return
	}

	_, err = s.br.Discard(int(extraLen))
	if err != nil {
		err = errors.Wrap(err, "failed skipping extra field")
		return
	}

	entry = Entry{
		Name:             string(name),
		Directory:        strings.HasSuffix(string(name), "/"),
		UncompressedSize: uint64(usize),
		CompressedSize:   uint64(csize),
		CRC32:            crc,
	}

	s.descriptor = flags&flagDataDescriptor != 0
	return
}

func (s *streamSource) openPayload(entry Entry, method uint16) (payload io.Reader, err error) {
	switch method {
	case methodStore:
		if s.descriptor {
			err = errors.Errorf(
				"stored entry %s defers its sizes to a data descriptor",
				entry.Name)
			return
		}
		payload = io.LimitReader(s.br, int64(entry.CompressedSize))
	case methodDeflate:
		var src io.Reader = s.br
		if !s.descriptor {
			src = io.LimitReader(s.br, int64(entry.CompressedSize))
			s.raw = src
		}
		// bufio.Reader is an io.ByteReader, so with unknown sizes the
		// inflater consumes exactly the deflate stream and no more
		s.inflater = flate.NewReader(src)
		payload = s.inflater
	default:
		err = errors.Errorf("entry %s uses unsupported method %d",
			entry.Name, method)
	}
	return
}

// finishEntry drains whatever the caller left of the current entry's
// payload and skips its trailing data descriptor, aligning the reader on
// the next signature.
func (s *streamSource) finishEntry() (err error) {
	if s.payload != nil {
		_, err = io.Copy(ioutil.Discard, s.payload)
		if err != nil {
			err = errors.Wrap(err, "failed draining entry payload")
			return
		}
		s.payload = nil
	}

	if s.inflater != nil {
		s.inflater.Close()
		s.inflater = nil
	}

	// the inflater stops at the end of the deflate stream; whatever is
	// left of the entry's declared compressed size still has to go
	if s.raw != nil {
		_, err = io.Copy(ioutil.Discard, s.raw)
		if err != nil {
			err = errors.Wrap(err, "failed draining entry remainder")
			return
		}
		s.raw = nil
	}

	if s.descriptor {
		s.descriptor = false
		err = s.discardDescriptor()
		if err != nil {
			return
		}
	}

	return
}

// discardDescriptor skips a data descriptor record, whose leading signature
// is optional: crc(4) + csize(4) + usize(4), possibly preceded by 4
// signature bytes.
func (s *streamSource) discardDescriptor() (err error) {
	head, err := s.br.Peek(4)
	if err != nil {
		err = errors.Wrap(err, "failed peeking data descriptor")
		return
	}

	n := 12
	if binary.LittleEndian.Uint32(head) == dataDescriptorSignature {
		n = 16
	}

	_, err = s.br.Discard(n)
	if err != nil {
		err = errors.Wrap(err, "failed skipping data descriptor")
		return
	}

	return
}
