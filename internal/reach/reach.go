// Package reach checks that a device's SSH port answers before a gather dials it.
package reach

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	nmap "github.com/Ullaakut/nmap/v3"

	"nxfacts/internal/logger"
)

// ErrUnreachable is returned when the scan completes but the port is not open
var ErrUnreachable = errors.New("device unreachable")

const defaultTimeout = 15 * time.Second

// Result is the outcome of one preflight scan
type Result struct {
	Host      string        `json:"host"`
	Port      int           `json:"port"`
	HostState string        `json:"host_state"`
	PortState string        `json:"port_state"`
	Service   string        `json:"service,omitempty"`
	Elapsed   time.Duration `json:"elapsed"`
}

// Reachable reports whether the port was seen open on a live host
func (r *Result) Reachable() bool {
	return r.HostState == "up" && r.PortState == "open"
}

type scanFunc func(ctx context.Context, host string, port int) (*nmap.Run, error)

// Prober runs a single-port nmap scan against the device
type Prober struct {
	timeout    time.Duration
	binaryPath string
	log        logger.Logger
	scan       scanFunc
}

// Option configures a Prober
type Option func(*Prober)

// WithTimeout bounds the whole scan
func WithTimeout(d time.Duration) Option {
	return func(p *Prober) {
		if d > 0 {
			p.timeout = d
		}
	}
}

// WithBinaryPath points at a non-default nmap binary
func WithBinaryPath(path string) Option {
	return func(p *Prober) {
		p.binaryPath = path
	}
}

// NewProber creates a Prober
func NewProber(log logger.Logger, opts ...Option) *Prober {
	p := &Prober{
		timeout: defaultTimeout,
		log:     log.WithComponent("reach"),
	}
	p.scan = p.nmapScan
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Check scans host:port. It returns ErrUnreachable alongside the result when the
// scan ran but the port is not open, and a plain error when nmap could not run.
func (p *Prober) Check(ctx context.Context, host string, port int) (*Result, error) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	start := time.Now()
	run, err := p.scan(ctx, host, port)
	if err != nil {
		return nil, fmt.Errorf("preflight scan of %s: %w", host, err)
	}

	res := evaluate(run, host, port)
	res.Elapsed = time.Since(start)

	p.log.Debug().Str("host", host).Int("port", port).Str("host_state", res.HostState).
		Str("port_state", res.PortState).Dur("elapsed", res.Elapsed).Msg("preflight scan complete")

	if !res.Reachable() {
		return res, fmt.Errorf("%w: %s:%d host %s, port %s", ErrUnreachable, host, port, res.HostState, res.PortState)
	}
	return res, nil
}

func (p *Prober) nmapScan(ctx context.Context, host string, port int) (*nmap.Run, error) {
	opts := []nmap.Option{
		nmap.WithTargets(host),
		nmap.WithPorts(strconv.Itoa(port)),
		// switches commonly drop ICMP from management hosts
		nmap.WithSkipHostDiscovery(),
	}
	if p.binaryPath != "" {
		opts = append(opts, nmap.WithBinaryPath(p.binaryPath))
	}

	scanner, err := nmap.NewScanner(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create scanner: %w", err)
	}

	result, warnings, err := scanner.Run()
	if err != nil {
		return nil, fmt.Errorf("scan failed: %w", err)
	}
	if warnings != nil && len(*warnings) > 0 {
		p.log.Warn().Strs("warnings", *warnings).Str("host", host).Msg("nmap reported warnings")
	}
	return result, nil
}

// evaluate reads the state of port on the first host in run. Missing data reads as
// "unknown" rather than failing.
func evaluate(run *nmap.Run, host string, port int) *Result {
	res := &Result{Host: host, Port: port, HostState: "unknown", PortState: "unknown"}
	if run == nil || len(run.Hosts) == 0 {
		return res
	}

	h := run.Hosts[0]
	if h.Status.State != "" {
		res.HostState = h.Status.State
	}
	for _, p := range h.Ports {
		if int(p.ID) != port || (p.Protocol != "" && p.Protocol != "tcp") {
			continue
		}
		if p.State.State != "" {
			res.PortState = p.State.State
		}
		res.Service = p.Service.Name
		break
	}
	return res
}
