package main

import (
	"context"

	"github.com/clickhouse-ops/grants-operator/shared/databaseconfigurator/clickhouse"
	"github.com/clickhouse-ops/grants-operator/shared/operatorconfig"
	"github.com/clickhouse-ops/grants-operator/shared/version"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

func main() {
	operatorconfig.InitCLIFlags()

	if viper.GetBool(operatorconfig.DebugLogKey) {
		logrus.SetLevel(logrus.DebugLevel)
	}
	logrus.WithField("version", version.Version()).Info("Starting grants reconciliation")

	ctx := context.Background()

	gateway, err := clickhouse.NewGateway(ctx, clickhouse.GatewayConfig{
		Address:  viper.GetString(operatorconfig.ServerAddrKey),
		Username: viper.GetString(operatorconfig.LoginUserKey),
		Password: viper.GetString(operatorconfig.LoginPasswordKey),
		Secure:   viper.GetBool(operatorconfig.SecureConnectKey),
	})
	if err != nil {
		logrus.WithError(err).Fatal("Failed connecting to ClickHouse server")
	}

	reconciler, err := clickhouse.NewReconciler(gateway)
	if err != nil {
		logrus.WithError(err).Fatal("Failed constructing reconciler")
	}
	reconciler.SetDryRun(viper.GetBool(operatorconfig.DryRunKey))

	var result *clickhouse.Result
	switch mode := viper.GetString(operatorconfig.ModeKey); mode {
	case operatorconfig.ModeAccess:
		result, err = reconciler.ReconcileAccess(ctx, clickhouse.AccessRequest{
			Grantee:            viper.GetString(operatorconfig.GranteeNameKey),
			Roles:              viper.GetStringSlice(operatorconfig.GrantRolesKey),
			Privileges:         viper.GetStringSlice(operatorconfig.GrantsKey),
			Databases:          viper.GetStringSlice(operatorconfig.DatabasesKey),
			Tables:             viper.GetStringSlice(operatorconfig.TablesKey),
			CreateMissingRoles: viper.GetBool(operatorconfig.InitRolesKey),
			Revoke:             viper.GetBool(operatorconfig.RevokeGrantsKey),
			Replace:            viper.GetBool(operatorconfig.ReplaceGrantsKey),
			OnCluster:          viper.GetBool(operatorconfig.OnClusterKey),
			ClusterName:        viper.GetString(operatorconfig.ClusterNameKey),
		})
	case operatorconfig.ModeUser:
		result, err = reconciler.ReconcileUser(ctx, clickhouse.UserRequest{
			Name:     viper.GetString(operatorconfig.GranteeNameKey),
			Password: viper.GetString(operatorconfig.UserPasswordKey),
			Roles:    viper.GetStringSlice(operatorconfig.GrantRolesKey),
			Quota:    viper.GetString(operatorconfig.UserQuotaKey),
			Profile:  viper.GetString(operatorconfig.UserProfileKey),
			State:    clickhouse.UserState(viper.GetString(operatorconfig.UserStateKey)),
		})
	default:
		logrus.Fatalf("Unsupported mode '%s', expected '%s' or '%s'", mode, operatorconfig.ModeAccess, operatorconfig.ModeUser)
	}

	for _, statement := range result.Statements {
		logrus.WithField("statement", statement).Info("Statement run")
	}
	if err != nil {
		logrus.WithError(err).Fatal("Reconciliation failed")
	}
	logrus.WithFields(logrus.Fields{
		"changed":    result.Changed,
		"statements": len(result.Statements),
	}).Info("Reconciliation complete")
}
