package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"runtime"
	"sort"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/argmaxinc/gpttok/envconfig"
	"github.com/argmaxinc/gpttok/logutil"
	"github.com/argmaxinc/gpttok/tokenizer"
)

func initLogging() {
	level := slog.LevelInfo
	if envconfig.Debug {
		level = slog.LevelDebug
	}
	if envconfig.Trace {
		level = logutil.LevelTrace
	}

	slog.SetDefault(logutil.NewLogger(os.Stderr, level))
}

// readInput returns the contents of the file named by args[0], or stdin
// when no argument (or "-") is given.
func readInput(args []string) ([]byte, error) {
	if len(args) == 0 || args[0] == "-" {
		return io.ReadAll(os.Stdin)
	}

	return os.ReadFile(args[0])
}

func loadEncoder(cmd *cobra.Command) (tokenizer.TextProcessor, error) {
	name, err := cmd.Flags().GetString("model")
	if err != nil {
		return nil, err
	}

	return tokenizer.GetEncoder(name)
}

func EncodeHandler(cmd *cobra.Command, args []string) error {
	enc, err := loadEncoder(cmd)
	if err != nil {
		return err
	}

	text, err := readInput(args)
	if err != nil {
		return err
	}

	ids, err := enc.Encode(string(text))
	if err != nil {
		return err
	}

	return json.NewEncoder(os.Stdout).Encode(ids)
}

func DecodeHandler(cmd *cobra.Command, args []string) error {
	enc, err := loadEncoder(cmd)
	if err != nil {
		return err
	}

	data, err := readInput(args)
	if err != nil {
		return err
	}

	var ids []int32
	if err := json.Unmarshal(data, &ids); err != nil {
		return fmt.Errorf("parse token ids: %w", err)
	}

	text, err := enc.Decode(ids)
	if err != nil {
		return err
	}

	fmt.Print(text)
	return nil
}

// BatchHandler tokenizes the named files concurrently through one shared
// encoder, writing a .tokens sidecar next to each input.
func BatchHandler(cmd *cobra.Command, args []string) error {
	enc, err := loadEncoder(cmd)
	if err != nil {
		return err
	}

	g := new(errgroup.Group)
	g.SetLimit(runtime.NumCPU())
	for _, path := range args {
		path := path
		g.Go(func() error {
			text, err := os.ReadFile(path)
			if err != nil {
				return err
			}

			ids, err := enc.Encode(string(text))
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}

			out, err := json.Marshal(ids)
			if err != nil {
				return err
			}

			slog.Debug("tokenized", "path", path, "tokens", len(ids))
			return os.WriteFile(path+".tokens", append(out, '\n'), 0o644)
		})
	}

	return g.Wait()
}

func fetch(url, dest string) error {
	resp, err := http.Get(url)
	if err != nil {
		return fmt.Errorf("get %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("get %s: unexpected status %s", url, resp.Status)
	}

	out, err := os.Create(dest)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, resp.Body); err != nil {
		return fmt.Errorf("write %s: %w", dest, err)
	}

	return nil
}

// FetchHandler downloads the two sidecar files of a released GPT-2
// configuration into the models directory.
func FetchHandler(cmd *cobra.Command, args []string) error {
	name, err := cmd.Flags().GetString("model")
	if err != nil {
		return err
	}

	dir := filepath.Join(envconfig.Models, name)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	for _, file := range []string{tokenizer.VocabFile, tokenizer.MergesFile} {
		url := fmt.Sprintf("https://openaipublic.blob.core.windows.net/gpt-2/models/%s/%s", name, file)
		slog.Info("downloading", "url", url)
		if err := fetch(url, filepath.Join(dir, file)); err != nil {
			return err
		}
	}

	return nil
}

func EnvHandler(cmd *cobra.Command, _ []string) error {
	envMap := envconfig.AsMap()
	keys := make([]string, 0, len(envMap))
	for k := range envMap {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		fmt.Printf("%-24s %-8v %s\n", k, envMap[k].Value, envMap[k].Description)
	}

	return nil
}

func NewCLI() *cobra.Command {
	initLogging()

	rootCmd := &cobra.Command{
		Use:           "gpttok",
		Short:         "Byte-level BPE tokenizer for GPT-2 vocabularies",
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
	}

	rootCmd.PersistentFlags().StringP("model", "m", "117M", "tokenizer configuration name")

	encodeCmd := &cobra.Command{
		Use:   "encode [file]",
		Short: "Tokenize text from a file or stdin, printing ids as JSON",
		Args:  cobra.MaximumNArgs(1),
		RunE:  EncodeHandler,
	}

	decodeCmd := &cobra.Command{
		Use:   "decode [file]",
		Short: "Reconstruct text from a JSON array of token ids",
		Args:  cobra.MaximumNArgs(1),
		RunE:  DecodeHandler,
	}

	batchCmd := &cobra.Command{
		Use:   "batch files...",
		Short: "Tokenize many files concurrently, writing .tokens sidecars",
		Args:  cobra.MinimumNArgs(1),
		RunE:  BatchHandler,
	}

	fetchCmd := &cobra.Command{
		Use:   "fetch",
		Short: "Download the vocabulary and merge rules for a configuration",
		Args:  cobra.NoArgs,
		RunE:  FetchHandler,
	}

	envCmd := &cobra.Command{
		Use:   "env",
		Short: "Show environment configuration",
		Args:  cobra.NoArgs,
		RunE:  EnvHandler,
	}

	rootCmd.AddCommand(encodeCmd, decodeCmd, batchCmd, fetchCmd, envCmd)
	return rootCmd
}
