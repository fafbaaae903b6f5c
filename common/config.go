package common

import (
	"io/ioutil"

	"github.com/spf13/viper"
)

const (
	// CfgConfigPath defines custom config path
	CfgConfigPath = "config.path"
	// CfgDataPath defines custom data path
	CfgDataPath = "data.path"

	// CfgStorageBackend selects the persistent key/value backend: "leveldb",
	// "badger" or "memory".
	CfgStorageBackend = "storage.backend"
	// CfgStorageLevelDBCacheMB sets the LevelDB block cache size in MB.
	CfgStorageLevelDBCacheMB = "storage.levelDBCacheMB"
	// CfgStorageLevelDBHandles sets the LevelDB open file handle limit.
	CfgStorageLevelDBHandles = "storage.levelDBHandles"

	// CfgAllocatorAddress sets the address of the root allocator. When empty
	// it is derived from the owner address.
	CfgAllocatorAddress = "allocator.address"
	// CfgAllocatorOwner sets the owner address of the root allocator.
	CfgAllocatorOwner = "allocator.owner"
	// CfgAllocatorCurator sets the curation authority address.
	CfgAllocatorCurator = "allocator.curator"
	// CfgAllocatorManager sets the manager address of the root allocator.
	CfgAllocatorManager = "allocator.manager"
	// CfgAllocatorBaselinePct sets the initial baseline share (1e6 scale).
	CfgAllocatorBaselinePct = "allocator.baselinePct"
	// CfgAllocatorManagerRewardPct sets the initial manager reward share (1e6 scale).
	CfgAllocatorManagerRewardPct = "allocator.managerRewardPct"

	// CfgVoteTokenOwners maps voting token ids to owner addresses for the
	// built-in ownership authorizer.
	CfgVoteTokenOwners = "votes.tokenOwners"

	// CfgRPCEnabled sets whether to run the admin RPC service.
	CfgRPCEnabled = "rpc.enabled"
	// CfgRPCAddress sets the binding address of the RPC service.
	CfgRPCAddress = "rpc.address"
	// CfgRPCPort sets the port of the RPC service.
	CfgRPCPort = "rpc.port"
	// CfgRPCTimeoutSecs sets the timeout for RPC requests.
	CfgRPCTimeoutSecs = "rpc.timeoutSecs"

	// CfgLogLevels sets the log level.
	CfgLogLevels = "log.levels"
	// CfgLogDebug enables debug logging globally.
	CfgLogDebug = "log.debug"
)

func init() {
	viper.SetDefault(CfgStorageBackend, "leveldb")
	viper.SetDefault(CfgStorageLevelDBCacheMB, 256)
	viper.SetDefault(CfgStorageLevelDBHandles, 16)

	viper.SetDefault(CfgAllocatorBaselinePct, 250000)
	viper.SetDefault(CfgAllocatorManagerRewardPct, 50000)

	viper.SetDefault(CfgRPCEnabled, true)
	viper.SetDefault(CfgRPCAddress, "127.0.0.1")
	viper.SetDefault(CfgRPCPort, "15872")
	viper.SetDefault(CfgRPCTimeoutSecs, 60)
}

// InitialConfig is the default configuration produced by the init command.
const InitialConfig = `# flowsplit configuration
storage:
  backend: leveldb
rpc:
  enabled: true
  port: 15872
`

// WriteInitialConfig writes the default config file to the given path.
func WriteInitialConfig(filePath string) error {
	return ioutil.WriteFile(filePath, []byte(InitialConfig), 0600)
}
