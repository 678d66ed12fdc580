package cli

import (
	"circounter/models"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/chzyer/readline"
	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
)

var (
	okColor   = color.New(color.FgGreen).SprintFunc()
	errColor  = color.New(color.FgRed).SprintFunc()
	warnColor = color.New(color.FgYellow).SprintFunc()
)

// CLIHttp is the CLI for HTTP client mode
type CLIHttp struct {
	rl      *readline.Instance
	running bool
	client  *Client
	out     io.Writer
}

// NewCLIHttp creates a new HTTP client CLI instance
func NewCLIHttp(serverURL string) (*CLIHttp, error) {
	client := NewClient(serverURL)

	// Test connectivity
	if err := client.HealthCheck(); err != nil {
		return nil, fmt.Errorf("cannot connect to server: %v", err)
	}

	// Create readline instance; ignore Ctrl+C
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "counter> ",
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
		AutoComplete:    completer,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create readline: %v", err)
	}

	return &CLIHttp{
		rl:      rl,
		running: true,
		client:  client,
		out:     os.Stdout,
	}, nil
}

var completer = readline.NewPrefixCompleter(
	readline.PcItem("list"),
	readline.PcItem("get"),
	readline.PcItem("create"),
	readline.PcItem("set"),
	readline.PcItem("incr"),
	readline.PcItem("decr"),
	readline.PcItem("reset"),
	readline.PcItem("delete"),
	readline.PcItem("errors"),
	readline.PcItem("codec"),
	readline.PcItem("help"),
	readline.PcItem("clear"),
	readline.PcItem("exit"),
)

// Start runs the CLI loop
func (c *CLIHttp) Start() {
	defer c.rl.Close()
	c.printWelcome()

	for c.running {
		line, err := c.rl.Readline()
		if err != nil {
			if err == readline.ErrInterrupt {
				fmt.Fprintln(c.out, warnColor("Ctrl+C detected. Use 'exit' or 'quit' to leave."))
				continue
			}
			// EOF or other error; exit
			break
		}

		input := strings.TrimSpace(line)
		if input == "" {
			continue
		}

		c.handleCommand(input)
	}
}

func (c *CLIHttp) printWelcome() {
	PrintBanner(c.out, "circounter - CLI Mode (HTTP Client)")
	fmt.Fprintf(c.out, "\nConnected to: %s\n", c.client.baseURL)
	fmt.Fprintln(c.out, "Type 'help' for available commands")
}

// handleCommand routes user commands
func (c *CLIHttp) handleCommand(input string) {
	parts := strings.Fields(input)
	if len(parts) == 0 {
		return
	}

	cmd := strings.ToLower(parts[0])
	args := parts[1:]

	switch cmd {
	case "help", "h", "?":
		c.showHelp()
	case "list", "ls":
		c.listStates()
	case "get", "show":
		if c.need(args, 1, "get <id|name>") {
			c.showResult(c.client.GetState(args[0]))
		}
	case "create", "add":
		if c.need(args, 1, "create <name> [value|start:cycle_len:value|json]") {
			raw, err := counterArg(args[1:])
			if err != nil {
				c.printErr(err)
				return
			}
			c.showResult(c.client.CreateState(args[0], raw))
		}
	case "set":
		if c.need(args, 2, "set <id|name> <null|value|start:cycle_len:value|json>") {
			raw, err := counterArg(args[1:])
			if err != nil {
				c.printErr(err)
				return
			}
			c.showResult(c.client.SetCounter(args[0], raw))
		}
	case "incr", "inc":
		if c.need(args, 1, "incr <id|name> [n]") {
			n, err := stepArg(args[1:])
			if err != nil {
				c.printErr(err)
				return
			}
			c.showResult(c.client.Increment(args[0], n))
		}
	case "decr", "dec":
		if c.need(args, 1, "decr <id|name> [n]") {
			n, err := stepArg(args[1:])
			if err != nil {
				c.printErr(err)
				return
			}
			c.showResult(c.client.Decrement(args[0], n))
		}
	case "reset":
		if c.need(args, 1, "reset <id|name>") {
			c.showResult(c.client.Reset(args[0]))
		}
	case "delete", "del", "rm":
		if c.need(args, 1, "delete <id|name>") {
			if err := c.client.DeleteState(args[0]); err != nil {
				c.printErr(err)
				return
			}
			fmt.Fprintln(c.out, okColor("Deleted "+args[0]))
		}
	case "errors":
		c.listErrors()
	case "codec":
		c.showCodec()
	case "clear":
		fmt.Fprint(c.out, "\033[H\033[2J")
	case "exit", "quit", "q":
		c.running = false
		fmt.Fprintln(c.out, "Bye.")
	default:
		fmt.Fprintf(c.out, "Unknown command: %s. Type 'help' for available commands.\n", cmd)
	}
}

func (c *CLIHttp) showHelp() {
	fmt.Fprintln(c.out)
	PrintBanner(c.out, "Available Commands")
	fmt.Fprintln(c.out)

	commands := [][]string{
		{"list", "List all states"},
		{"get <ref>", "Show one state by id or name"},
		{"create <name> [counter]", "Create a state; counter is empty, null, an integer, s:c:v or JSON"},
		{"set <ref> <counter>", "Replace the counter of a state"},
		{"incr <ref> [n]", "Advance the counter by n (default 1)"},
		{"decr <ref> [n]", "Move the counter back by n (default 1)"},
		{"reset <ref>", "Move the counter to the start of its window"},
		{"delete <ref>", "Delete a state"},
		{"errors", "Show recorded data-integrity errors"},
		{"codec", "Show how counters are stored"},
		{"clear", "Clear screen"},
		{"exit, quit, q", "Exit the program"},
	}

	for _, cmd := range commands {
		fmt.Fprintf(c.out, "  %-26s %s\n", cmd[0], cmd[1])
	}
}

func (c *CLIHttp) need(args []string, n int, usage string) bool {
	if len(args) < n {
		fmt.Fprintln(c.out, "Usage: "+usage)
		return false
	}
	return true
}

func (c *CLIHttp) printErr(err error) {
	fmt.Fprintln(c.out, errColor("Error: "+err.Error()))
}

func (c *CLIHttp) showResult(st *models.StateRead, err error) {
	if err != nil {
		c.printErr(err)
		return
	}
	c.renderStates([]models.StateRead{*st})
}

func (c *CLIHttp) listStates() {
	states, err := c.client.ListStates()
	if err != nil {
		c.printErr(err)
		return
	}
	if len(states) == 0 {
		fmt.Fprintln(c.out, "No states yet.")
		return
	}
	c.renderStates(states)
}

func (c *CLIHttp) renderStates(states []models.StateRead) {
	table := tablewriter.NewWriter(c.out)
	table.Header("ID", "Name", "Start", "Cycle", "Value", "Stored")
	for _, st := range states {
		start, cycle, value, stored := "-", "-", "-", "NULL"
		if st.Counter.Valid {
			start = strconv.FormatInt(st.Counter.Counter.Start(), 10)
			cycle = strconv.FormatInt(st.Counter.Counter.CycleLen(), 10)
			value = strconv.FormatInt(st.Counter.Counter.Value(), 10)
		}
		if st.Encoded != nil {
			stored = *st.Encoded
		}
		_ = table.Append([]string{st.ID, st.Name, start, cycle, value, stored})
	}
	if err := table.Render(); err != nil {
		c.printErr(err)
	}
}

func (c *CLIHttp) listErrors() {
	logs, err := c.client.GetErrorLogs()
	if err != nil {
		c.printErr(err)
		return
	}
	if len(logs) == 0 {
		fmt.Fprintln(c.out, okColor("No errors recorded."))
		return
	}

	table := tablewriter.NewWriter(c.out)
	table.Header("ID", "Time", "Level", "Source", "Message", "Detail")
	for _, l := range logs {
		_ = table.Append([]string{strconv.Itoa(l.ID), l.Timestamp.Format("2006-01-02 15:04:05"), l.Level, l.Source, l.Message, l.Detail})
	}
	if err := table.Render(); err != nil {
		c.printErr(err)
	}
}

func (c *CLIHttp) showCodec() {
	info, err := c.client.GetCodec()
	if err != nil {
		c.printErr(err)
		return
	}
	fmt.Fprintf(c.out, "Column type:   %s (%d chars)\n", info.ColumnType, info.ColumnWidth)
	fmt.Fprintf(c.out, "Format:        %s\n", info.Format)
	fmt.Fprintf(c.out, "Default range: start=%d cycle_len=%d\n", info.DefaultRange.Start, info.DefaultRange.CycleLen)
}

// counterArg turns CLI arguments into a JSON counter payload.
// Accepted: nothing (null), "null", an integer, "start:cycle_len:value" or raw JSON.
func counterArg(args []string) (json.RawMessage, error) {
	if len(args) == 0 {
		return nil, nil
	}
	s := strings.Join(args, " ")
	if s == "null" {
		return json.RawMessage("null"), nil
	}
	if _, err := strconv.ParseInt(s, 10, 64); err == nil {
		return json.RawMessage(s), nil
	}
	if parts := strings.Split(s, ":"); len(parts) == 3 {
		var nums [3]int64
		for i, p := range parts {
			n, err := strconv.ParseInt(strings.TrimSpace(p), 10, 64)
			if err != nil {
				return nil, fmt.Errorf("invalid counter %q", s)
			}
			nums[i] = n
		}
		b, err := json.Marshal(map[string]int64{"start": nums[0], "cycle_len": nums[1], "value": nums[2]})
		if err != nil {
			return nil, err
		}
		return b, nil
	}
	if json.Valid([]byte(s)) {
		return json.RawMessage(s), nil
	}
	return nil, fmt.Errorf("invalid counter %q", s)
}

func stepArg(args []string) (int64, error) {
	if len(args) == 0 {
		return 1, nil
	}
	n, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid step %q", args[0])
	}
	return n, nil
}
