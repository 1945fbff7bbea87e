package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/illarion/fastmem/cmd"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "init":
		runInit(os.Args[2:])
	case "set":
		runSet(os.Args[2:])
	case "get":
		runGet(os.Args[2:])
	case "rm":
		runRm(os.Args[2:])
	case "clear":
		runClear(os.Args[2:])
	case "lock":
		runLock(os.Args[2:])
	case "unlock":
		runUnlock(os.Args[2:])
	case "save":
		runSave(os.Args[2:])
	case "load":
		runLoad(os.Args[2:])
	case "status", "ls":
		runStatus(os.Args[2:])
	case "diff":
		runDiff(os.Args[2:])
	case "keyring":
		runKeyring(os.Args[2:])
	case "completion":
		runCompletion(os.Args[2:])
	case "help", "-h", "--help":
		if len(os.Args) <= 2 {
			printUsage()
			return
		}
		printCommandHelp(os.Args[2])
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func runInit(args []string) {
	fs := flag.NewFlagSet("init", flag.ExitOnError)
	path := fs.String("path", ".", "Path where to create the storage")
	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Usage: fastmem init <name> [--path <dir>]")
		os.Exit(1)
	}

	cmd.Init(fs.Arg(0), *path)
}

func runSet(args []string) {
	fs := flag.NewFlagSet("set", flag.ExitOnError)
	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
	if fs.NArg() != 3 {
		fmt.Fprintln(os.Stderr, "Usage: fastmem set <storage> <key> <value>")
		os.Exit(1)
	}

	cmd.Set(fs.Arg(0), fs.Arg(1), fs.Arg(2))
}

func runGet(args []string) {
	fs := flag.NewFlagSet("get", flag.ExitOnError)
	def := fs.String("default", "", "Value to print when the key is absent")
	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
	if fs.NArg() != 2 {
		fmt.Fprintln(os.Stderr, "Usage: fastmem get <storage> <key> [--default <value>]")
		os.Exit(1)
	}

	hasDefault := false
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "default" {
			hasDefault = true
		}
	})

	cmd.Get(fs.Arg(0), fs.Arg(1), *def, hasDefault)
}

func runRm(args []string) {
	fs := flag.NewFlagSet("rm", flag.ExitOnError)
	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
	if fs.NArg() != 2 {
		fmt.Fprintln(os.Stderr, "Usage: fastmem rm <storage> <key>")
		os.Exit(1)
	}

	cmd.Remove(fs.Arg(0), fs.Arg(1))
}

func runClear(args []string) {
	fs := flag.NewFlagSet("clear", flag.ExitOnError)
	yes := fs.Bool("yes", false, "Skip confirmation")
	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Usage: fastmem clear <storage> [--yes]")
		os.Exit(1)
	}

	cmd.Clear(fs.Arg(0), *yes)
}

func runLock(args []string) {
	fs := flag.NewFlagSet("lock", flag.ExitOnError)
	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Usage: fastmem lock <storage>")
		os.Exit(1)
	}

	cmd.Lock(fs.Arg(0))
}

func runUnlock(args []string) {
	fs := flag.NewFlagSet("unlock", flag.ExitOnError)
	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Usage: fastmem unlock <storage>")
		os.Exit(1)
	}

	cmd.Unlock(fs.Arg(0))
}

func runSave(args []string) {
	fs := flag.NewFlagSet("save", flag.ExitOnError)
	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
	if fs.NArg() != 2 {
		fmt.Fprintln(os.Stderr, "Usage: fastmem save <storage> <name>")
		os.Exit(1)
	}

	cmd.Save(fs.Arg(0), fs.Arg(1))
}

func runLoad(args []string) {
	fs := flag.NewFlagSet("load", flag.ExitOnError)
	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
	if fs.NArg() != 2 {
		fmt.Fprintln(os.Stderr, "Usage: fastmem load <storage> <name>")
		os.Exit(1)
	}

	cmd.Load(fs.Arg(0), fs.Arg(1))
}

func runStatus(args []string) {
	fs := flag.NewFlagSet("status", flag.ExitOnError)
	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
	if fs.NArg() < 1 || fs.NArg() > 2 {
		fmt.Fprintln(os.Stderr, "Usage: fastmem status <storage> [key]")
		os.Exit(1)
	}

	key := ""
	if fs.NArg() == 2 {
		key = fs.Arg(1)
	}
	cmd.Status(fs.Arg(0), key)
}

func runDiff(args []string) {
	fs := flag.NewFlagSet("diff", flag.ExitOnError)
	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
	if fs.NArg() < 2 || fs.NArg() > 3 {
		fmt.Fprintln(os.Stderr, "Usage: fastmem diff <storage> <state> [state]")
		os.Exit(1)
	}

	nameB := ""
	if fs.NArg() == 3 {
		nameB = fs.Arg(2)
	}
	cmd.Diff(fs.Arg(0), fs.Arg(1), nameB)
}

func runKeyring(args []string) {
	if len(args) < 2 {
		fmt.Fprintln(os.Stderr, "Usage: fastmem keyring <save|delete|status> <storage>")
		os.Exit(1)
	}

	switch args[0] {
	case "save":
		cmd.KeyringSave(args[1])
	case "delete":
		cmd.KeyringDelete(args[1])
	case "status":
		cmd.KeyringStatus(args[1])
	default:
		fmt.Fprintf(os.Stderr, "Unknown keyring command: %s\n", args[0])
		os.Exit(1)
	}
}

func runCompletion(args []string) {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "Usage: fastmem completion <bash|zsh|fish>")
		os.Exit(1)
	}
	cmd.Completion(args[0])
}

func printUsage() {
	fmt.Println("fastmem - Fast and secure encrypted key-value storage")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  fastmem <command> [arguments]")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  init        Create a new named storage")
	fmt.Println("  set         Store a value under a key")
	fmt.Println("  get         Print the value stored under a key")
	fmt.Println("  rm          Delete a key")
	fmt.Println("  clear       Remove all values from a storage")
	fmt.Println("  lock        Block mutations until unlocked")
	fmt.Println("  unlock      Allow mutations again")
	fmt.Println("  save        Save the index to a named state")
	fmt.Println("  load        Restore the index from a named state")
	fmt.Println("  status, ls  Show storage status (no password needed)")
	fmt.Println("  diff        Compare saved states")
	fmt.Println("  keyring     Manage the cached password in the OS keyring")
	fmt.Println("  completion  Generate shell completions")
	fmt.Println("  help        Show help for a command")
	fmt.Println()
	fmt.Println("Examples:")
	fmt.Println("  fastmem init notes              # Create ./notes storage")
	fmt.Println("  fastmem set notes greeting '\"hello\"'")
	fmt.Println("  fastmem get notes greeting")
	fmt.Println("  fastmem status notes")
	fmt.Println()
	fmt.Println("Use 'fastmem help <command>' for more information about a command.")
}

func printCommandHelp(command string) {
	switch command {
	case "init":
		fmt.Println("fastmem init <name> [--path <dir>]")
		fmt.Println()
		fmt.Println("Creates a new storage directory <dir>/<name> and prompts for")
		fmt.Println("the password protecting its values. The password is never")
		fmt.Println("stored - you must remember it (or cache it with 'keyring save').")
		fmt.Println()
		fmt.Println("The FASTMEM_PASSWORD environment variable, when set, is used")
		fmt.Println("instead of prompting.")
	case "set":
		fmt.Println("fastmem set <storage> <key> <value>")
		fmt.Println()
		fmt.Println("Encrypts and stores a value under a key. The value is parsed")
		fmt.Println("as JSON (numbers, booleans, null, lists, maps); anything that")
		fmt.Println("is not valid JSON is stored as a plain string.")
		fmt.Println()
		fmt.Println("Examples:")
		fmt.Println("  fastmem set notes count 42")
		fmt.Println("  fastmem set notes tags '[\"a\",\"b\"]'")
		fmt.Println("  fastmem set notes title 'plain text'")
	case "get":
		fmt.Println("fastmem get <storage> <key> [--default <value>]")
		fmt.Println()
		fmt.Println("Decrypts and prints the value stored under a key in its JSON")
		fmt.Println("form. An absent key prints the default when one is given, and")
		fmt.Println("exits non-zero otherwise. Reading works even while the storage")
		fmt.Println("is locked.")
	case "rm":
		fmt.Println("fastmem rm <storage> <key>")
		fmt.Println()
		fmt.Println("Deletes a key and its encrypted blob file. Exits non-zero when")
		fmt.Println("the key does not exist.")
	case "clear":
		fmt.Println("fastmem clear <storage> [--yes]")
		fmt.Println()
		fmt.Println("Deletes every value in the storage. Asks for confirmation")
		fmt.Println("unless --yes is given.")
	case "lock":
		fmt.Println("fastmem lock <storage>")
		fmt.Println()
		fmt.Println("Blocks set, rm, clear, save and load until 'fastmem unlock'.")
		fmt.Println("Reading with get keeps working.")
	case "unlock":
		fmt.Println("fastmem unlock <storage>")
		fmt.Println()
		fmt.Println("Clears the lock flag set by 'fastmem lock'.")
	case "save":
		fmt.Println("fastmem save <storage> <name>")
		fmt.Println()
		fmt.Println("Saves the key-to-blob mapping to <name>.state under the")
		fmt.Println("storage root, overwriting any state of the same name. Blob")
		fmt.Println("contents are not copied.")
	case "load":
		fmt.Println("fastmem load <storage> <name>")
		fmt.Println()
		fmt.Println("Replaces the mapping with the contents of <name>.state. Blobs")
		fmt.Println("referenced by a stale state may no longer exist; reading such")
		fmt.Println("a key reports a read failure.")
	case "status", "ls":
		fmt.Println("fastmem status <storage> [key]")
		fmt.Println()
		fmt.Println("Shows storage details: encryption parameters, lock state, keys")
		fmt.Println("and sizes. With a key, shows that key's blob, size and")
		fmt.Println("modification time. Does not require a password.")
	case "diff":
		fmt.Println("fastmem diff <storage> <state> [state]")
		fmt.Println()
		fmt.Println("Shows a unified diff between two saved states, or between a")
		fmt.Println("saved state and the live index when one name is given.")
	case "keyring":
		fmt.Println("fastmem keyring <save|delete|status> <storage>")
		fmt.Println()
		fmt.Println("Caches the storage password in the OS keyring so commands")
		fmt.Println("stop prompting, removes it, or reports whether one is cached.")
	case "completion":
		fmt.Println("fastmem completion <bash|zsh|fish>")
		fmt.Println()
		fmt.Println("Outputs a shell completion script for the specified shell.")
		fmt.Println()
		fmt.Println("Setup:")
		fmt.Println("  # Bash - add to ~/.bashrc")
		fmt.Println("  eval \"$(fastmem completion bash)\"")
		fmt.Println()
		fmt.Println("  # Zsh - add to ~/.zshrc")
		fmt.Println("  eval \"$(fastmem completion zsh)\"")
		fmt.Println()
		fmt.Println("  # Fish - add to ~/.config/fish/config.fish")
		fmt.Println("  fastmem completion fish | source")
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
	}
}
