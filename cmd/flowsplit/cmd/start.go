package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path"
	"strconv"
	"syscall"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/flowsplit/flowsplit/common"
	"github.com/flowsplit/flowsplit/ledger"
	"github.com/flowsplit/flowsplit/ledger/types"
	"github.com/flowsplit/flowsplit/pool"
	"github.com/flowsplit/flowsplit/rpc"
	"github.com/flowsplit/flowsplit/store/database"
	"github.com/flowsplit/flowsplit/store/database/backend"
)

// startCmd represents the start command
var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the flowsplit allocator daemon.",
	Run:   runStart,
}

func init() {
	RootCmd.AddCommand(startCmd)
}

func runStart(cmd *cobra.Command, args []string) {
	db, err := openDatabase()
	if err != nil {
		panic(fmt.Sprintf("Failed to open the database: %v", err))
	}
	defer db.Close()

	owner, err := common.ParseAddress(viper.GetString(common.CfgAllocatorOwner))
	if err != nil {
		panic(fmt.Sprintf("Invalid allocator owner address: %v", err))
	}
	curator, err := parseOptionalAddress(viper.GetString(common.CfgAllocatorCurator))
	if err != nil {
		panic(fmt.Sprintf("Invalid curation authority address: %v", err))
	}
	manager, err := parseOptionalAddress(viper.GetString(common.CfgAllocatorManager))
	if err != nil {
		panic(fmt.Sprintf("Invalid manager address: %v", err))
	}
	addr, err := parseOptionalAddress(viper.GetString(common.CfgAllocatorAddress))
	if err != nil {
		panic(fmt.Sprintf("Invalid allocator address: %v", err))
	}
	if addr.IsZero() {
		addr = types.RootAllocatorAddress(owner)
	}

	tokens, err := loadTokenOwners()
	if err != nil {
		panic(fmt.Sprintf("Invalid token owner table: %v", err))
	}

	allocator, err := ledger.NewAllocator(ledger.Config{
		Addr:             addr,
		Owner:            owner,
		Curator:          curator,
		Manager:          manager,
		BaselinePct:      uint32(viper.GetInt(common.CfgAllocatorBaselinePct)),
		ManagerRewardPct: uint32(viper.GetInt(common.CfgAllocatorManagerRewardPct)),
		DB:               db,
		Engine:           pool.NewStreamEngine(nil),
		VoteAuth:         ledger.OwnershipAuthorizer{Tokens: tokens},
	})
	if err != nil {
		panic(fmt.Sprintf("Failed to create the allocator: %v", err))
	}

	log.WithFields(log.Fields{
		"address": allocator.Addr().Hex(),
		"owner":   owner.Hex(),
	}).Info("Allocator started")

	if !viper.GetBool(common.CfgRPCEnabled) {
		waitForSignal()
		return
	}

	server := rpc.NewAllocatorRPCServer(allocator)
	server.Start(context.Background())

	waitForSignal()
	server.Stop()
	server.Wait()
}

func openDatabase() (database.Database, error) {
	dataPath := viper.GetString(common.CfgDataPath)
	if dataPath == "" {
		dataPath = cfgPath
	}

	switch backendName := viper.GetString(common.CfgStorageBackend); backendName {
	case "leveldb":
		return backend.NewLDBDatabase(path.Join(dataPath, "db"),
			viper.GetInt(common.CfgStorageLevelDBCacheMB),
			viper.GetInt(common.CfgStorageLevelDBHandles))
	case "badger":
		return backend.NewBadgerDatabase(path.Join(dataPath, "db"))
	case "memory":
		return backend.NewMemDatabase(), nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", backendName)
	}
}

func parseOptionalAddress(s string) (common.Address, error) {
	if s == "" {
		return common.Address{}, nil
	}
	return common.ParseAddress(s)
}

// loadTokenOwners reads the token id to owner table that backs the built-in
// ownership authorizer.
func loadTokenOwners() (ledger.StaticTokenOwners, error) {
	tokens := ledger.StaticTokenOwners{}
	for idStr, ownerStr := range viper.GetStringMapString(common.CfgVoteTokenOwners) {
		tokenID, err := strconv.ParseUint(idStr, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("token id %q: %v", idStr, err)
		}
		owner, err := common.ParseAddress(ownerStr)
		if err != nil {
			return nil, fmt.Errorf("token %v owner: %v", tokenID, err)
		}
		tokens[tokenID] = owner
	}
	return tokens, nil
}

func waitForSignal() {
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	<-sigc
}
