package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/kk-code-lab/lesser"
)

func printHelp() {
	fmt.Print(`lesser - stream files or stdin through a terminal pager

USAGE:
    lesser [OPTIONS] [FILE]

OPTIONS:
    -h, --help      Show this help message and exit
    -n, --numbers   Show line numbers
    -F, --no-pause  Print and exit when the content fits on one screen
    -p PROMPT       Override the status-line prompt
`)
}

func main() {
	lineNumbers := false
	noPause := false
	prompt := ""
	file := ""

	args := os.Args[1:]
	for i := 0; i < len(args); i++ {
		switch arg := args[i]; arg {
		case "-h", "--help":
			printHelp()
			os.Exit(0)
		case "-n", "--numbers":
			lineNumbers = true
		case "-F", "--no-pause":
			noPause = true
		case "-p":
			if i+1 >= len(args) {
				fmt.Fprintln(os.Stderr, "lesser: -p needs a value")
				os.Exit(2)
			}
			i++
			prompt = args[i]
		default:
			if file != "" {
				fmt.Fprintf(os.Stderr, "lesser: unexpected argument %q\n", arg)
				os.Exit(2)
			}
			file = arg
		}
	}

	var src io.Reader = os.Stdin
	name := "stdin"
	if file != "" {
		f, err := os.Open(file)
		if err != nil {
			fmt.Fprintf(os.Stderr, "lesser: %v\n", err)
			os.Exit(1)
		}
		defer func() {
			_ = f.Close()
		}()
		src = f
		name = filepath.Base(file)
	}

	p := lesser.NewPager()
	if prompt == "" {
		prompt = name
	}
	p.SetPrompt(prompt)
	if lineNumbers {
		p.SetLineNumbers(lesser.LineNumbersEnabled)
	}

	if noPause {
		// Static mode needs the content up front to decide whether it fits.
		content, err := io.ReadAll(src)
		if err != nil {
			fmt.Fprintf(os.Stderr, "lesser: %v\n", err)
			os.Exit(1)
		}
		p.SetText(string(content))
		p.SetRunNoOverflow(true)
		if err := lesser.Page(p); err != nil {
			fmt.Fprintf(os.Stderr, "lesser: %v\n", err)
			os.Exit(1)
		}
		return
	}

	go func() {
		buf := make([]byte, 16*1024)
		for {
			n, err := src.Read(buf)
			if n > 0 {
				_, _ = p.Write(buf[:n])
			}
			if err != nil {
				return
			}
		}
	}()

	if err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "lesser: %v\n", err)
		os.Exit(1)
	}
}
