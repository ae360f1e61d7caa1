package archive_test

import (
	"archive/zip"
	"bytes"
	"io"
	"io/ioutil"
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"

	"github.com/cirocosta/xzpack/archive"
)

// deflatedArchive builds a container the way common zip tooling does:
// entries compressed with deflate and sizes deferred to data descriptors,
// plus an explicit directory entry.
func deflatedArchive() []byte {
	var buf bytes.Buffer

	zw := zip.NewWriter(&buf)

	w, err := zw.Create("a.txt")
	Expect(err).ToNot(HaveOccurred())
	_, err = io.WriteString(w, "hi")
	Expect(err).ToNot(HaveOccurred())

	_, err = zw.CreateHeader(&zip.FileHeader{Name: "empty/"})
	Expect(err).ToNot(HaveOccurred())

	w, err = zw.Create("lib/b.txt")
	Expect(err).ToNot(HaveOccurred())
	_, err = io.WriteString(w, "bye")
	Expect(err).ToNot(HaveOccurred())

	Expect(zw.Close()).To(Succeed())

	return buf.Bytes()
}

// snapshot flattens a directory tree into relative paths: files map to
// their contents, empty directories to a trailing-slash key.
func snapshot(dir string) map[string]string {
	out := map[string]string{}

	err := filepath.Walk(dir, func(path string, info os.FileInfo, werr error) error {
		if werr != nil {
			return werr
		}

		rel, rerr := filepath.Rel(dir, path)
		if rerr != nil {
			return rerr
		}

		rel = filepath.ToSlash(rel)
		if rel == "." {
			return nil
		}

		if info.IsDir() {
			children, cerr := ioutil.ReadDir(path)
			if cerr != nil {
				return cerr
			}
			if len(children) == 0 {
				out[rel+"/"] = ""
			}
			return nil
		}

		content, cerr := ioutil.ReadFile(path)
		if cerr != nil {
			return cerr
		}

		out[rel] = string(content)
		return nil
	})
	Expect(err).ToNot(HaveOccurred())

	return out
}

var _ = Describe("Extract", func() {

	var dir string

	BeforeEach(func() {
		var err error

		dir, err = ioutil.TempDir("", "xzpack-extract")
		Expect(err).ToNot(HaveOccurred())
	})

	AfterEach(func() {
		os.RemoveAll(dir)
	})

	Context("with a nil source", func() {

		It("does nothing", func() {
			Expect(archive.Extract(nil, dir)).To(Succeed())
			Expect(snapshot(dir)).To(BeEmpty())
		})

	})

	Context("with a zero-entry container", func() {

		It("leaves the target untouched", func() {
			var buf bytes.Buffer

			zw := zip.NewWriter(&buf)
			Expect(zw.Close()).To(Succeed())

			Expect(archive.Extract(bytes.NewReader(buf.Bytes()), dir)).To(Succeed())
			Expect(snapshot(dir)).To(BeEmpty())
		})

	})

	Context("with a deflated container", func() {

		It("reconstructs the full tree, descriptors and all", func() {
			err := archive.Extract(bytes.NewReader(deflatedArchive()), dir)

			Expect(err).ToNot(HaveOccurred())
			Expect(snapshot(dir)).To(Equal(map[string]string{
				"a.txt":     "hi",
				"empty/":    "",
				"lib/b.txt": "bye",
			}))
		})

	})

	Context("with garbage input", func() {

		It("fails", func() {
			err := archive.Extract(bytes.NewReader([]byte("not a zip at all")), dir)
			Expect(err).To(HaveOccurred())
		})

	})

})

var _ = Describe("ExtractFile", func() {

	var (
		dir     string
		zipfile string
	)

	BeforeEach(func() {
		var err error

		dir, err = ioutil.TempDir("", "xzpack-extractfile")
		Expect(err).ToNot(HaveOccurred())

		zipfile = filepath.Join(dir, "in.zip")
	})

	AfterEach(func() {
		os.RemoveAll(dir)
	})

	It("fails for a missing container", func() {
		err := archive.ExtractFile(filepath.Join(dir, "nope.zip"), dir)
		Expect(err).To(HaveOccurred())
	})

	It("produces the same tree as stream extraction", func() {
		content := deflatedArchive()
		Expect(ioutil.WriteFile(zipfile, content, 0644)).To(Succeed())

		streamed := filepath.Join(dir, "streamed")
		random := filepath.Join(dir, "random")

		Expect(archive.Extract(bytes.NewReader(content), streamed)).To(Succeed())
		Expect(archive.ExtractFile(zipfile, random)).To(Succeed())

		Expect(snapshot(random)).To(Equal(snapshot(streamed)))
	})

})

var _ = Describe("round-tripping a tree through Write and Extract", func() {

	var (
		src  string
		work string
	)

	BeforeEach(func() {
		var err error

		src, err = ioutil.TempDir("", "xzpack-roundtrip-src")
		Expect(err).ToNot(HaveOccurred())

		work, err = ioutil.TempDir("", "xzpack-roundtrip-work")
		Expect(err).ToNot(HaveOccurred())

		Expect(os.MkdirAll(filepath.Join(src, "lib", "nested"), 0755)).To(Succeed())
		Expect(os.MkdirAll(filepath.Join(src, "void"), 0755)).To(Succeed())

		Expect(ioutil.WriteFile(filepath.Join(src, "a.txt"), []byte("hi"), 0644)).To(Succeed())
		Expect(ioutil.WriteFile(filepath.Join(src, "lib", "b.txt"), []byte("bye"), 0644)).To(Succeed())
		Expect(ioutil.WriteFile(filepath.Join(src, "lib", "nested", "c.bin"),
			bytes.Repeat([]byte{0xca, 0xfe}, 9000), 0644)).To(Succeed())
	})

	AfterEach(func() {
		os.RemoveAll(src)
		os.RemoveAll(work)
	})

	It("reconstructs files, contents and empty directories in both modes", func() {
		zipfile := filepath.Join(work, "tree.zip")
		Expect(archive.Write(src, zipfile)).To(Succeed())

		random := filepath.Join(work, "random")
		Expect(archive.ExtractFile(zipfile, random)).To(Succeed())
		Expect(snapshot(random)).To(Equal(snapshot(src)))

		f, err := os.Open(zipfile)
		Expect(err).ToNot(HaveOccurred())

		streamed := filepath.Join(work, "streamed")
		Expect(archive.Extract(f, streamed)).To(Succeed())
		Expect(snapshot(streamed)).To(Equal(snapshot(src)))
	})

})
