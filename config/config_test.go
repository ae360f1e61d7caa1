package config_test

import (
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"

	"github.com/cirocosta/xzpack/config"
)

var _ = Describe("Config", func() {

	Describe("Parse", func() {

		const mockFilename = "mock-file"

		var (
			content string
			vars    map[string]string
			cfg     *config.Config
			err     error
		)

		BeforeEach(func() {
			vars = nil
		})

		JustBeforeEach(func() {
			cfg, err = config.Parse([]byte(content), mockFilename, vars)
		})

		Context("with empty content", func() {

			BeforeEach(func() {
				content = ``
			})

			It("fails", func() {
				Expect(err).To(HaveOccurred())
			})

		})

		Context("with malformed content", func() {

			BeforeEach(func() {
				content = `archive_directory = {{{`
			})

			It("fails", func() {
				Expect(err).To(HaveOccurred())
			})

		})

		Context("having just `archive_directory`", func() {

			BeforeEach(func() {
				content = `archive_directory = "jars"`
			})

			It("succeeds", func() {
				Expect(err).ToNot(HaveOccurred())
			})

			It("leaves everything else unset", func() {
				Expect(cfg.ArchiveDirectory).To(Equal("jars"))
				Expect(cfg.OutputDirectory).To(BeEmpty())
				Expect(cfg.Includes).To(BeEmpty())
				Expect(cfg.Excludes).To(BeEmpty())
				Expect(cfg.Level).To(BeNil())
			})

		})

		Context("having every setting", func() {

			BeforeEach(func() {
				content = `
					archive_directory = "jars"
					output_directory  = "dist"
					includes          = ["**/*.jar"]
					excludes          = ["**/*-sources.jar"]
					level             = 6
				`
			})

			It("succeeds", func() {
				Expect(err).ToNot(HaveOccurred())
			})

			It("has the fields correctly filled", func() {
				Expect(cfg.ArchiveDirectory).To(Equal("jars"))
				Expect(cfg.OutputDirectory).To(Equal("dist"))
				Expect(cfg.Includes).To(Equal([]string{"**/*.jar"}))
				Expect(cfg.Excludes).To(Equal([]string{"**/*-sources.jar"}))
				Expect(cfg.Level).ToNot(BeNil())
				Expect(*cfg.Level).To(Equal(6))
			})

		})

		Context("having a level outside 0-9", func() {

			BeforeEach(func() {
				content = `
					archive_directory = "jars"
					level             = 12
				`
			})

			It("fails", func() {
				Expect(err).To(HaveOccurred())
			})

		})

		Context("interpolating variables", func() {

			BeforeEach(func() {
				content = `archive_directory = base`
				vars = map[string]string{"base": "jars"}
			})

			It("substitutes the variable's value", func() {
				Expect(err).ToNot(HaveOccurred())
				Expect(cfg.ArchiveDirectory).To(Equal("jars"))
			})

		})

		Context("referencing an unknown variable", func() {

			BeforeEach(func() {
				content = `archive_directory = base`
				vars = nil
			})

			It("fails", func() {
				Expect(err).To(HaveOccurred())
			})

		})

	})

})
