// Package monitoring turns a running simulation into a small HTTP server,
// the way the teacher repo's own monitoring package does for its engine:
// a handful of read-only JSON endpoints plus a CPU profile capture, built
// on gorilla/mux, shirou/gopsutil and google/pprof/profile.
package monitoring

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net"
	"net/http"

	// Enable net/http/pprof's default handlers on the default mux, the way
	// the teacher's monitoring package does.
	_ "net/http/pprof"
	"os"
	"runtime/pprof"
	"strconv"
	"sync"
	"time"

	"github.com/google/pprof/profile"
	"github.com/gorilla/mux"
	"github.com/shirou/gopsutil/process"

	"github.com/flowsim/desim/sim"
)

// gauge is anything with a current level and a capacity, the common shape
// Resource and Store both expose. RegisterResource and RegisterStore adapt
// each type into one via closures, since Go methods on Monitor cannot carry
// their own type parameter for Store[V].
type gauge struct {
	name     string
	level    func() uint64
	capacity func() uint64
}

// ProgressBar reports coarse progress through a long-running model, for
// callers that know roughly how many units of work they will do (e.g. "N
// customers" or "N simulated weeks").
type ProgressBar struct {
	Name  string `json:"name"`
	Done  uint64 `json:"done"`
	Total uint64 `json:"total"`
}

// Monitor exposes a *sim.Scheduler and a set of registered gauges over
// HTTP, for inspecting a long-running simulation from outside the process.
type Monitor struct {
	sched      *sim.Scheduler
	portNumber int
	boundURL   string

	gaugesLock sync.Mutex
	gauges     []*gauge

	barsLock sync.Mutex
	bars     []*ProgressBar
}

// NewMonitor creates a Monitor for sched.
func NewMonitor(sched *sim.Scheduler) *Monitor {
	return &Monitor{sched: sched}
}

// WithPortNumber sets the port the monitor listens on; ports below 1000 are
// rejected in favor of an OS-assigned port, since those are typically
// reserved.
func (m *Monitor) WithPortNumber(portNumber int) *Monitor {
	if portNumber < 1000 {
		fmt.Fprintf(os.Stderr,
			"port %d is not allowed for the monitoring server, "+
				"using a random port instead\n", portNumber)
		portNumber = 0
	}

	m.portNumber = portNumber

	return m
}

// RegisterResource adds r to the set of gauges reported by /api/resources,
// under name.
func (m *Monitor) RegisterResource(name string, r *sim.Resource) {
	m.addGauge(&gauge{
		name:     name,
		level:    func() uint64 { return r.Capacity() - r.Available() },
		capacity: r.Capacity,
	})
}

// RegisterStore adds st to the set of gauges reported by /api/resources,
// under name. A store declared with sim.Unbounded capacity reports a
// capacity of zero, signaling "no limit" to callers.
func RegisterStore[V any](m *Monitor, name string, st *sim.Store[V]) {
	m.addGauge(&gauge{
		name:  name,
		level: func() uint64 { return uint64(st.Len()) },
		capacity: func() uint64 {
			if st.Capacity() == sim.Unbounded {
				return 0
			}
			return uint64(st.Capacity())
		},
	})
}

func (m *Monitor) addGauge(g *gauge) {
	m.gaugesLock.Lock()
	defer m.gaugesLock.Unlock()

	m.gauges = append(m.gauges, g)
}

// CreateProgressBar registers a new progress bar reported by /api/progress.
func (m *Monitor) CreateProgressBar(name string, total uint64) *ProgressBar {
	bar := &ProgressBar{Name: name, Total: total}

	m.barsLock.Lock()
	defer m.barsLock.Unlock()

	m.bars = append(m.bars, bar)

	return bar
}

// AdvanceProgressBar sets bar's completed count.
func (m *Monitor) AdvanceProgressBar(bar *ProgressBar, done uint64) {
	m.barsLock.Lock()
	defer m.barsLock.Unlock()

	bar.Done = done
}

// URL returns the address the monitor most recently bound to.
func (m *Monitor) URL() string { return m.boundURL }

// StartServer starts the monitoring HTTP server in the background and
// returns the URL it bound to.
func (m *Monitor) StartServer() string {
	r := mux.NewRouter()
	r.HandleFunc("/api/now", m.now)
	r.HandleFunc("/api/resources", m.listGauges)
	r.HandleFunc("/api/progress", m.listProgress)
	r.HandleFunc("/api/process", m.processStats)
	r.HandleFunc("/api/profile", m.collectProfile)
	// net/http/pprof registers its handlers on http.DefaultServeMux as a
	// side effect of being imported; delegate to it instead of also
	// claiming "/" there, so starting more than one Monitor in the same
	// process doesn't panic on a duplicate registration.
	r.PathPrefix("/debug/pprof/").Handler(http.DefaultServeMux)

	actualPort := ":0"
	if m.portNumber >= 1000 {
		actualPort = ":" + strconv.Itoa(m.portNumber)
	}

	listener, err := net.Listen("tcp", actualPort)
	dieOnErr(err)

	m.boundURL = fmt.Sprintf("http://localhost:%d", listener.Addr().(*net.TCPAddr).Port)
	fmt.Fprintf(os.Stderr, "monitoring simulation at %s\n", m.boundURL)

	go func() {
		err := http.Serve(listener, r)
		if err != nil {
			log.Println("monitoring server stopped:", err)
		}
	}()

	return m.boundURL
}

func (m *Monitor) now(w http.ResponseWriter, _ *http.Request) {
	fmt.Fprintf(w, `{"now":%.10f}`, float64(m.sched.Now()))
}

type gaugeRsp struct {
	Name     string `json:"name"`
	Level    uint64 `json:"level"`
	Capacity uint64 `json:"capacity"`
}

func (m *Monitor) listGauges(w http.ResponseWriter, _ *http.Request) {
	m.gaugesLock.Lock()
	rsp := make([]gaugeRsp, len(m.gauges))
	for i, g := range m.gauges {
		rsp[i] = gaugeRsp{Name: g.name, Level: g.level(), Capacity: g.capacity()}
	}
	m.gaugesLock.Unlock()

	data, err := json.Marshal(rsp)
	dieOnErr(err)

	_, err = w.Write(data)
	dieOnErr(err)
}

func (m *Monitor) listProgress(w http.ResponseWriter, _ *http.Request) {
	m.barsLock.Lock()
	data, err := json.Marshal(m.bars)
	m.barsLock.Unlock()
	dieOnErr(err)

	_, err = w.Write(data)
	dieOnErr(err)
}

type processRsp struct {
	CPUPercent float64 `json:"cpu_percent"`
	MemorySize uint64  `json:"memory_size"`
}

func (m *Monitor) processStats(w http.ResponseWriter, _ *http.Request) {
	proc, err := process.NewProcess(int32(os.Getpid()))
	dieOnErr(err)

	cpuPercent, err := proc.CPUPercent()
	dieOnErr(err)

	memInfo, err := proc.MemoryInfo()
	dieOnErr(err)

	data, err := json.Marshal(processRsp{
		CPUPercent: cpuPercent,
		MemorySize: memInfo.RSS,
	})
	dieOnErr(err)

	_, err = w.Write(data)
	dieOnErr(err)
}

func (m *Monitor) collectProfile(w http.ResponseWriter, _ *http.Request) {
	buf := bytes.NewBuffer(nil)

	err := pprof.StartCPUProfile(buf)
	dieOnErr(err)

	time.Sleep(time.Second)

	pprof.StopCPUProfile()

	prof, err := profile.ParseData(buf.Bytes())
	dieOnErr(err)

	data, err := json.Marshal(prof)
	dieOnErr(err)

	_, err = w.Write(data)
	dieOnErr(err)
}

func dieOnErr(err error) {
	if err != nil {
		log.Panic(err)
	}
}
