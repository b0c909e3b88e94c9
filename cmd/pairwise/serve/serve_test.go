package servecmder_test

import (
	"io"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/spf13/cobra"

	servecmder "github.com/papercomputeco/pairwise/cmd/pairwise/serve"
	"github.com/papercomputeco/pairwise/pkg/llm/provider/openai"
)

func newRoot() *cobra.Command {
	root := &cobra.Command{Use: "pairwise", SilenceUsage: true, SilenceErrors: true}
	root.PersistentFlags().BoolP("debug", "d", false, "")
	root.PersistentFlags().String("config-dir", "", "")
	root.AddCommand(servecmder.NewServeCmd())
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	return root
}

var _ = Describe("NewServeCmd", func() {
	It("registers the serve flags with their defaults", func() {
		cmd := servecmder.NewServeCmd()
		Expect(cmd.Use).To(Equal("serve"))

		defaults := map[string]string{
			"listen":       ":8000",
			"upstream":     "https://api.openai.com/v1/",
			"timeout":      (5 * time.Minute).String(),
			"weak-model":   "gpt-3.5-turbo",
			"strong-model": "gpt-4",
			"csv-path":     "conversations_log.csv",
			"json-logs":    "false",
			"log-file":     "",
			"trace-file":   "",
		}
		for name, def := range defaults {
			f := cmd.Flags().Lookup(name)
			Expect(f).NotTo(BeNil(), name)
			Expect(f.DefValue).To(Equal(def), name)
		}
		Expect(cmd.Flags().Lookup("listen").Shorthand).To(Equal("l"))
		Expect(cmd.Flags().Lookup("upstream").Shorthand).To(Equal("u"))
	})

	It("refuses to start without an upstream API key", func() {
		GinkgoT().Setenv("PAIRWISE_UPSTREAM_API_KEY", "")
		GinkgoT().Setenv("OPENAI_API_KEY", "")

		root := newRoot()
		root.SetArgs([]string{"serve", "--config-dir", GinkgoT().TempDir(), "--listen", "127.0.0.1:0"})

		err := root.Execute()
		Expect(err).To(MatchError(openai.ErrMissingAPIKey))
		Expect(err.Error()).To(ContainSubstring("OPENAI_API_KEY"))
	})

	It("rejects positional arguments", func() {
		root := newRoot()
		root.SetArgs([]string{"serve", "extra"})
		Expect(root.Execute()).To(HaveOccurred())
	})
})
