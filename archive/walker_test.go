package archive_test

import (
	"io/ioutil"
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"

	"github.com/cirocosta/xzpack/archive"
)

var _ = Describe("Walker", func() {

	var root string

	BeforeEach(func() {
		var err error

		root, err = ioutil.TempDir("", "xzpack-walker")
		Expect(err).ToNot(HaveOccurred())
	})

	AfterEach(func() {
		os.RemoveAll(root)
	})

	walk := func() (items []archive.Item) {
		walker := archive.NewWalker(root)

		for {
			item, done, err := walker.Next()
			Expect(err).ToNot(HaveOccurred())
			if done {
				return
			}
			items = append(items, item)
		}
	}

	Context("over an empty root", func() {

		It("yields nothing", func() {
			Expect(walk()).To(BeEmpty())
		})

		It("stays exhausted once done", func() {
			walker := archive.NewWalker(root)

			_, done, err := walker.Next()
			Expect(err).ToNot(HaveOccurred())
			Expect(done).To(BeTrue())

			_, done, err = walker.Next()
			Expect(err).ToNot(HaveOccurred())
			Expect(done).To(BeTrue())
		})

	})

	Context("over a missing root", func() {

		It("fails on the first call", func() {
			walker := archive.NewWalker(filepath.Join(root, "nope"))

			_, _, err := walker.Next()
			Expect(err).To(HaveOccurred())
		})

	})

	Context("over a populated tree", func() {

		BeforeEach(func() {
			Expect(os.MkdirAll(filepath.Join(root, "sub", "deeper"), 0755)).To(Succeed())
			Expect(os.MkdirAll(filepath.Join(root, "empty"), 0755)).To(Succeed())

			Expect(ioutil.WriteFile(filepath.Join(root, "a.txt"), []byte("hi"), 0644)).To(Succeed())
			Expect(ioutil.WriteFile(filepath.Join(root, "sub", "b.txt"), []byte("bye"), 0644)).To(Succeed())
			Expect(ioutil.WriteFile(filepath.Join(root, "sub", "deeper", "c.txt"), []byte("deep"), 0644)).To(Succeed())
		})

		It("yields every file and directory exactly once, never the root", func() {
			rels := []string{}
			for _, item := range walk() {
				rels = append(rels, item.Rel)
			}

			Expect(rels).To(ConsistOf(
				"a.txt",
				"empty",
				"sub",
				"sub/b.txt",
				"sub/deeper",
				"sub/deeper/c.txt",
			))
		})

		It("yields directories ahead of their contents", func() {
			index := map[string]int{}
			for idx, item := range walk() {
				index[item.Rel] = idx
			}

			Expect(index["sub"]).To(BeNumerically("<", index["sub/b.txt"]))
			Expect(index["sub"]).To(BeNumerically("<", index["sub/deeper"]))
			Expect(index["sub/deeper"]).To(BeNumerically("<", index["sub/deeper/c.txt"]))
		})

		It("relativizes paths against the root", func() {
			for _, item := range walk() {
				Expect(item.Path).To(Equal(
					filepath.Join(root, filepath.FromSlash(item.Rel))))
			}
		})

	})

})
