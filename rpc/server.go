package rpc

import (
	"context"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/viper"

	"github.com/flowsplit/flowsplit/common"
	"github.com/flowsplit/flowsplit/common/util"
	"github.com/flowsplit/flowsplit/ledger"
)

var logger *log.Entry = util.GetLoggerForModule("rpc")

// AllocatorRPCServer exposes the operations and read surface of a root
// allocator over HTTP/JSON.
type AllocatorRPCServer struct {
	allocator *ledger.Allocator

	server   *http.Server
	router   *mux.Router
	listener net.Listener

	// Life cycle
	wg      *sync.WaitGroup
	ctx     context.Context
	cancel  context.CancelFunc
	stopped bool
}

// NewAllocatorRPCServer creates a new instance of AllocatorRPCServer.
func NewAllocatorRPCServer(allocator *ledger.Allocator) *AllocatorRPCServer {
	t := &AllocatorRPCServer{
		allocator: allocator,
		wg:        &sync.WaitGroup{},
	}

	timeout := viper.GetDuration(common.CfgRPCTimeoutSecs) * time.Second

	t.router = mux.NewRouter()
	t.router.Handle("/", &defaultHTTPHandler{})
	t.router.HandleFunc("/status", t.handleStatus).Methods("GET")
	t.router.HandleFunc("/recipients", t.handleListRecipients).Methods("GET")
	t.router.HandleFunc("/recipients", t.handleAddRecipient).Methods("POST")
	t.router.HandleFunc("/recipients/{id}", t.handleGetRecipient).Methods("GET")
	t.router.HandleFunc("/recipients/{id}", t.handleRemoveRecipient).Methods("DELETE")
	t.router.HandleFunc("/votes", t.handleCastVote).Methods("POST")
	t.router.HandleFunc("/votes/{tokenID}", t.handleGetAllocation).Methods("GET")
	t.router.HandleFunc("/rate", t.handleGetRate).Methods("GET")
	t.router.HandleFunc("/rate", t.handleSetTotalRate).Methods("PUT")
	t.router.HandleFunc("/rate/percentages", t.handleSetRatePercentages).Methods("PUT")
	t.router.HandleFunc("/claimable/{address}", t.handleClaimable).Methods("GET")

	t.server = &http.Server{
		Handler:      corsMiddleware(t.router),
		ReadTimeout:  timeout,
		WriteTimeout: timeout,
	}

	return t
}

// Start creates the main goroutine.
func (t *AllocatorRPCServer) Start(ctx context.Context) {
	c, cancel := context.WithCancel(ctx)
	t.ctx = c
	t.cancel = cancel

	t.wg.Add(1)
	go t.mainLoop()
}

func (t *AllocatorRPCServer) mainLoop() {
	defer t.wg.Done()

	go t.serve()

	<-t.ctx.Done()
	t.stopped = true
	t.server.Shutdown(t.ctx)
}

func (t *AllocatorRPCServer) serve() {
	address := viper.GetString(common.CfgRPCAddress)
	port := viper.GetString(common.CfgRPCPort)
	l, err := net.Listen("tcp", address+":"+port)
	if err != nil {
		logger.WithFields(log.Fields{"error": err}).Fatal("Failed to create listener")
	} else {
		logger.WithFields(log.Fields{"address": address, "port": port}).Info("RPC server started")
	}
	defer l.Close()

	t.listener = l
	if err := t.server.Serve(l); err != nil && !t.stopped {
		logger.WithFields(log.Fields{"error": err}).Error("RPC server terminated")
	}
}

// Stop notifies all goroutines to stop without blocking.
func (t *AllocatorRPCServer) Stop() {
	t.cancel()
}

// Wait blocks until all goroutines stop.
func (t *AllocatorRPCServer) Wait() {
	t.wg.Wait()
}

func corsMiddleware(handler http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Headers", "*")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		handler.ServeHTTP(w, r)
	})
}

type defaultHTTPHandler struct {
}

func (dh *defaultHTTPHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Write([]byte("flowsplit allocator is up and running!\n"))
}
