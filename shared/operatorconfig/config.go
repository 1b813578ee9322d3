package operatorconfig

import (
	"strings"

	"github.com/clickhouse-ops/grants-operator/shared/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	ServerAddrKey          = "server-address" // ClickHouse server address as host:port
	ServerAddrDefault      = "127.0.0.1:9000"
	SecureConnectKey       = "secure-connect" // Connect to the server over TLS
	SecureConnectDefault   = false
	LoginUserKey           = "login-user" // ClickHouse user to authenticate as
	LoginUserDefault       = "default"
	LoginPasswordKey       = "login-password"
	GranteeNameKey         = "grantee-name" // User or role whose access is reconciled
	GrantsKey              = "grants"       // Privileges to grant, mutually exclusive with grant-roles
	DatabasesKey           = "databases"    // Databases the privileges apply to
	TablesKey              = "tables"       // Tables the privileges apply to, '*' for all
	GrantRolesKey          = "grant-roles"  // Roles to assign, mutually exclusive with grants
	InitRolesKey           = "init-roles"   // Create assigned roles when they do not exist
	InitRolesDefault       = false
	RevokeGrantsKey        = "revoke-grants" // Revoke the requested grants instead of granting
	RevokeGrantsDefault    = false
	ReplaceGrantsKey       = "replace-grants" // Make the grantee's grants exactly the requested set
	ReplaceGrantsDefault   = false
	OnClusterKey           = "on-cluster" // Run mutations as distributed cluster statements
	OnClusterDefault       = false
	ClusterNameKey         = "cluster-name"
	ClusterNameDefault     = "default"
	UserStateKey           = "user-state" // Desired user state, present or absent
	UserStateDefault       = "present"
	UserPasswordKey        = "user-password"
	UserQuotaKey           = "user-quota"   // Quota the user should be a member of
	UserProfileKey         = "user-profile" // Settings profile the user should inherit
	ModeKey                = "mode"         // Reconciliation mode, access or user
	ModeAccess             = "access"
	ModeUser               = "user"
	DryRunKey              = "dry-run" // Plan statements without executing them
	DryRunDefault          = false
	DebugLogKey            = "debug" // Whether to enable debug logging
	DebugLogDefault        = false
	EnvPrefix              = "CLICKHOUSE"
	defaultScopedDatabase  = "default"
	defaultWildcardedTable = "*"
)

func init() {
	viper.SetDefault(ServerAddrKey, ServerAddrDefault)
	viper.SetDefault(SecureConnectKey, SecureConnectDefault)
	viper.SetDefault(LoginUserKey, LoginUserDefault)
	viper.SetDefault(LoginPasswordKey, "")
	viper.SetDefault(GranteeNameKey, "")
	viper.SetDefault(GrantsKey, nil)
	viper.SetDefault(DatabasesKey, []string{defaultScopedDatabase})
	viper.SetDefault(TablesKey, []string{defaultWildcardedTable})
	viper.SetDefault(GrantRolesKey, nil)
	viper.SetDefault(InitRolesKey, InitRolesDefault)
	viper.SetDefault(RevokeGrantsKey, RevokeGrantsDefault)
	viper.SetDefault(ReplaceGrantsKey, ReplaceGrantsDefault)
	viper.SetDefault(OnClusterKey, OnClusterDefault)
	viper.SetDefault(ClusterNameKey, ClusterNameDefault)
	viper.SetDefault(UserStateKey, UserStateDefault)
	viper.SetDefault(UserPasswordKey, "")
	viper.SetDefault(UserQuotaKey, "")
	viper.SetDefault(UserProfileKey, "")
	viper.SetDefault(ModeKey, ModeAccess)
	viper.SetDefault(DryRunKey, DryRunDefault)
	viper.SetDefault(DebugLogKey, DebugLogDefault)
	viper.SetEnvPrefix(EnvPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	viper.AddConfigPath("/etc/clickhouse-grants")
	if err := viper.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) {
			logrus.WithError(err).Panic("Failed to read config file")
		}
	}
}

func InitCLIFlags() {
	pflag.String(ServerAddrKey, ServerAddrDefault, "ClickHouse server address as host:port")
	pflag.Bool(SecureConnectKey, SecureConnectDefault, "Connect to the server over TLS")
	pflag.String(LoginUserKey, LoginUserDefault, "ClickHouse user to authenticate as")
	pflag.String(LoginPasswordKey, "", "Password for the login user")
	pflag.String(GranteeNameKey, "", "User or role whose access is reconciled")
	pflag.StringSlice(GrantsKey, nil, "Privileges to grant, mutually exclusive with grant-roles")
	pflag.StringSlice(DatabasesKey, []string{defaultScopedDatabase}, "Databases the privileges apply to")
	pflag.StringSlice(TablesKey, []string{defaultWildcardedTable}, "Tables the privileges apply to, '*' for all tables")
	pflag.StringSlice(GrantRolesKey, nil, "Roles to assign, mutually exclusive with grants")
	pflag.Bool(InitRolesKey, InitRolesDefault, "Create assigned roles when they do not exist")
	pflag.Bool(RevokeGrantsKey, RevokeGrantsDefault, "Revoke the requested grants instead of granting them")
	pflag.Bool(ReplaceGrantsKey, ReplaceGrantsDefault, "Make the grantee's grants exactly the requested set")
	pflag.Bool(OnClusterKey, OnClusterDefault, "Run mutations as distributed cluster statements")
	pflag.String(ClusterNameKey, ClusterNameDefault, "Cluster name for distributed statements")
	pflag.String(UserStateKey, UserStateDefault, "Desired user state, present or absent")
	pflag.String(UserPasswordKey, "", "Password for a created user, generated when empty")
	pflag.String(UserQuotaKey, "", "Quota the user should be a member of")
	pflag.String(UserProfileKey, "", "Settings profile the user should inherit")
	pflag.String(ModeKey, ModeAccess, "Reconciliation mode, access or user")
	pflag.Bool(DryRunKey, DryRunDefault, "Plan statements without executing them")
	pflag.Bool(DebugLogKey, DebugLogDefault, "Enable debug logging")

	if err := viper.BindPFlags(pflag.CommandLine); err != nil {
		logrus.WithError(err).Panic("Failed to bind CLI flags")
	}

	pflag.Parse()
}
