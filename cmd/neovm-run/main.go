// Command neovm-run loads a program, executes it to termination, and
// prints the resulting public tuple. It is a minimal runner, not a full
// CLI: the assembler/disassembler and persistent storage backend are
// separate collaborators this command does not provide.
//
// Input is three JSON lines on stdin:
//
//	{"program_hex": "1213..."}
//	{"arguments": [{"type":"integer","value":"42"},{"type":"bytestring","value":"deadbeef"}]}
//	{"gas_limit": 1000000}
//
// Output is one JSON object on stdout with the public tuple (hex-encoded
// hashes) plus the fault kind, if any. Progress goes to stderr.
package main

import (
	"bufio"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"math/big"
	"os"

	neovmcore "github.com/zkneo/neovm-core/pkg/neovm-core"
)

type programLine struct {
	ProgramHex string `json:"program_hex"`
}

type argument struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

type argumentsLine struct {
	Arguments []argument `json:"arguments"`
}

type gasLine struct {
	GasLimit uint64 `json:"gas_limit"`
}

type result struct {
	ProgramHash string `json:"program_hash"`
	InputHash   string `json:"input_hash"`
	OutputHash  string `json:"output_hash"`
	GasConsumed uint64 `json:"gas_consumed"`
	Success     bool   `json:"success"`
	FaultKind   string `json:"fault_kind,omitempty"`
}

func main() {
	scanner := bufio.NewScanner(os.Stdin)
	scanner.Buffer(make([]byte, 0, 1<<20), 1<<20)

	var prog programLine
	if !scanner.Scan() {
		fatal("failed to read program line")
	}
	if err := json.Unmarshal(scanner.Bytes(), &prog); err != nil {
		fatal(fmt.Sprintf("failed to parse program line: %v", err))
	}

	var argsLine argumentsLine
	if !scanner.Scan() {
		fatal("failed to read arguments line")
	}
	if err := json.Unmarshal(scanner.Bytes(), &argsLine); err != nil {
		fatal(fmt.Sprintf("failed to parse arguments line: %v", err))
	}

	var gas gasLine
	if !scanner.Scan() {
		fatal("failed to read gas_limit line")
	}
	if err := json.Unmarshal(scanner.Bytes(), &gas); err != nil {
		fatal(fmt.Sprintf("failed to parse gas_limit line: %v", err))
	}

	program, err := hex.DecodeString(prog.ProgramHex)
	if err != nil {
		fatal(fmt.Sprintf("invalid program_hex: %v", err))
	}

	arguments, err := convertArguments(argsLine.Arguments)
	if err != nil {
		fatal(fmt.Sprintf("invalid arguments: %v", err))
	}

	logStderr("loading program")
	cfg := neovmcore.DefaultEngineConfig().WithGasLimit(gas.GasLimit)
	eng := neovmcore.NewEngine(cfg, nil, nil, nil)
	eng.EnableTracing()

	if err := eng.Load(program); err != nil {
		fatal(fmt.Sprintf("load failed: %v", err))
	}
	for _, arg := range arguments {
		if err := eng.Push(arg); err != nil {
			fatal(fmt.Sprintf("failed to push argument: %v", err))
		}
	}

	logStderr("executing")
	report, err := eng.RunToEnd()
	if err != nil {
		fatal(fmt.Sprintf("run failed: %v", err))
	}
	logStderr(fmt.Sprintf("terminated in state %v after %d gas", report.State, report.GasConsumed))

	tuple := neovmcore.ComputePublicTuple(program, arguments, gas.GasLimit, report)
	out := result{
		ProgramHash: hex.EncodeToString(tuple.ProgramHash[:]),
		InputHash:   hex.EncodeToString(tuple.InputHash[:]),
		OutputHash:  hex.EncodeToString(tuple.OutputHash[:]),
		GasConsumed: tuple.GasConsumed,
		Success:     tuple.Success,
	}
	if report.Fault != nil {
		out.FaultKind = report.Fault.Kind.String()
	}

	enc := json.NewEncoder(os.Stdout)
	if err := enc.Encode(out); err != nil {
		fatal(fmt.Sprintf("failed to encode result: %v", err))
	}
}

func convertArguments(args []argument) ([]neovmcore.Value, error) {
	out := make([]neovmcore.Value, len(args))
	for i, a := range args {
		v, err := convertArgument(a)
		if err != nil {
			return nil, fmt.Errorf("argument %d: %w", i, err)
		}
		out[i] = v
	}
	return out, nil
}

func convertArgument(a argument) (neovmcore.Value, error) {
	switch a.Type {
	case "null":
		return neovmcore.NullValue(), nil
	case "integer":
		n, ok := new(big.Int).SetString(a.Value, 10)
		if !ok {
			return neovmcore.Value{}, fmt.Errorf("invalid integer literal %q", a.Value)
		}
		return neovmcore.IntValue(n)
	case "bytestring":
		b, err := hex.DecodeString(a.Value)
		if err != nil {
			return neovmcore.Value{}, fmt.Errorf("invalid hex bytestring: %w", err)
		}
		return neovmcore.ByteStringValue(b), nil
	case "boolean":
		return neovmcore.BoolValue(a.Value == "true"), nil
	default:
		return neovmcore.Value{}, fmt.Errorf("unknown argument type %q", a.Type)
	}
}

func logStderr(msg string) {
	fmt.Fprintln(os.Stderr, "neovm-run:", msg)
}

func fatal(msg string) {
	logStderr("ERROR: " + msg)
	os.Exit(1)
}
