package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/hesusruiz/hamlj/haml"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
)

// stdoutName as output file name writes the result to the standard output
const stdoutName = "-"

// job is one compilation requested in the command line
type job struct {
	inputFileName  string
	outputFileName string
	force          bool
	color          bool
	config         *Config
	log            *zap.SugaredLogger
}

// compile reads the input file and returns the compiled template.
// Files with an extension not in the allow list are returned unchanged, unless forced.
func (j *job) compile() ([]byte, error) {

	src, err := os.ReadFile(j.inputFileName)
	if err != nil {
		return nil, err
	}

	if !j.force && !haml.ShouldCompile(j.inputFileName, j.config.Extensions) {
		j.log.Debugw("extension not in the allow list, copying unchanged", "file", j.inputFileName, "extensions", j.config.Extensions)
		return src, nil
	}

	opts := j.config.Options
	opts.Filename = j.inputFileName
	opts.Logger = j.log

	start := time.Now()
	out, err := haml.Compile(string(src), opts)
	if err != nil {
		return nil, err
	}
	j.log.Debugw("compiled", "file", j.inputFileName, "in", len(src), "out", len(out), "elapsed", time.Since(start))

	return []byte(out), nil
}

// write sends the result to the output file or to the standard output
func (j *job) write(out []byte) error {

	if j.outputFileName != stdoutName {
		return os.WriteFile(j.outputFileName, out, 0664)
	}

	if j.color && isTerminal(os.Stdout) {
		return highlight(os.Stdout, string(out), j.config.CodeStyle)
	}

	_, err := os.Stdout.Write(out)
	return err
}

// outputNameFor replaces the extension of the input file name with '.html'
func outputNameFor(inputFileName string) string {
	ext := filepath.Ext(inputFileName)
	if len(ext) == 0 {
		return inputFileName + ".html"
	}
	return strings.TrimSuffix(inputFileName, ext) + ".html"
}

// processWatch checks periodically if the input file has been modified, and if so
// it compiles the file and writes the result to the output file.
// Compilation errors are reported and the watch continues.
func processWatch(j *job) error {

	var old_timestamp time.Time
	var current_timestamp time.Time

	// Loop forever
	for {

		// Get the modified timestamp of the input file
		info, err := os.Stat(j.inputFileName)
		if err != nil {
			return err
		}
		current_timestamp = info.ModTime()

		// If current modified timestamp is newer than the previous timestamp, process the file
		if old_timestamp.Before(current_timestamp) {
			old_timestamp = current_timestamp
			fmt.Fprintln(os.Stderr, "************Processing*************")

			out, err := j.compile()
			if err != nil {
				j.log.Errorw("compilation failed", "error", err)
			} else if err := j.write(out); err != nil {
				return err
			}
		}

		// Check again in one second
		time.Sleep(1 * time.Second)

	}
}

// process is the main entry point of the program
func process(c *cli.Context) error {

	// Default input file name
	var inputFileName = "index.haml"

	// Output file name command line parameter
	outputFileName := c.String("output")

	// Dry run
	dryrun := c.Bool("dryrun")

	debug := c.Bool("debug")

	var z *zap.Logger
	var err error

	// Setup the logging system
	if debug {
		z, err = zap.NewDevelopment()
		if err != nil {
			panic(err)
		}
	} else {
		z, err = zap.NewProduction()
		if err != nil {
			panic(err)
		}
	}

	sugar := z.Sugar()
	defer sugar.Sync()

	// Read the config file, and then let the command line override it
	config, err := loadConfig(c.String("config"))
	if err != nil {
		return err
	}
	if c.IsSet("indent") {
		config.Options.IndentString = decodeEscapes(c.String("indent"))
	}
	if c.IsSet("newline") {
		config.Options.NewlineString = decodeEscapes(c.String("newline"))
	}

	// Get the input file name
	if c.Args().Present() {
		inputFileName = c.Args().First()
	} else {
		fmt.Fprintf(os.Stderr, "no input file provided, using \"%v\"\n", inputFileName)
	}

	// Generate the output file name
	if len(outputFileName) == 0 {
		outputFileName = outputNameFor(inputFileName)
	}

	j := &job{
		inputFileName:  inputFileName,
		outputFileName: outputFileName,
		force:          c.Bool("force"),
		color:          c.Bool("color"),
		config:         config,
		log:            sugar,
	}

	// Print a message, unless the output goes to the terminal
	if dryrun {
		fmt.Fprintf(os.Stderr, "dry run: processing %v without writing output\n", inputFileName)
	} else if outputFileName != stdoutName {
		fmt.Printf("processing %v and generating %v\n", inputFileName, outputFileName)
	}

	// This is useful for development.
	// If the user specified to watch, loop forever processing the input file when modified
	if c.Bool("watch") {
		return processWatch(j)
	}

	out, err := j.compile()
	if err != nil {
		return err
	}

	// Do nothing if flag dryrun was specified
	if dryrun {
		return nil
	}

	return j.write(out)
}

func main() {

	app := &cli.App{
		Name:     "hamlj",
		Version:  "v0.1.0",
		Compiled: time.Now(),
		Authors: []*cli.Author{
			{
				Name:  "Jesus Ruiz",
				Email: "hesus.ruiz@gmail.com",
			},
		},
		Usage:     "compile a HAML-like document into an HTML/Jinja template",
		UsageText: "hamlj [options] [INPUT_FILE] (default input file is index.haml)",
		Action:    process,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "write the template to `FILE` (default is input file name with extension .html, '-' for stdout)",
			},
			&cli.StringFlag{
				Name:  "indent",
				Usage: "indent each nesting level with `STRING` (default is two spaces)",
			},
			&cli.StringFlag{
				Name:  "newline",
				Usage: "separate output lines with `STRING`, escapes like \\n are decoded",
			},
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "read the configuration from `FILE` (default is " + defaultConfigFile + " in the current or the user config directory)",
			},
			&cli.BoolFlag{
				Name:    "dryrun",
				Aliases: []string{"n"},
				Usage:   "do not generate output file, just process input file",
			},
			&cli.BoolFlag{
				Name:    "debug",
				Aliases: []string{"d"},
				Usage:   "run in debug mode",
			},
			&cli.BoolFlag{
				Name:    "watch",
				Aliases: []string{"w"},
				Usage:   "watch the file for changes",
			},
			&cli.BoolFlag{
				Name:  "color",
				Usage: "highlight the template when writing to a terminal",
			},
			&cli.BoolFlag{
				Name:    "force",
				Aliases: []string{"f"},
				Usage:   "compile the file even if its extension is not in the allow list",
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

}
