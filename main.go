package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"time"

	"gitee.com/czyczk/certichain/internal/appinit"
	"gitee.com/czyczk/certichain/internal/artifact"
	"gitee.com/czyczk/certichain/internal/auth"
	anchorserver "gitee.com/czyczk/certichain/internal/background"
	"gitee.com/czyczk/certichain/internal/blockchain/bcao/fabricbcao"
	"gitee.com/czyczk/certichain/internal/blockchain/chaincodectx"
	"gitee.com/czyczk/certichain/internal/controller"
	"gitee.com/czyczk/certichain/internal/db"
	"gitee.com/czyczk/certichain/internal/global"
	"gitee.com/czyczk/certichain/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

func main() {
	var configPath, sdkConfigPath string

	serveFunc := getServeFunc(&configPath, &sdkConfigPath)

	app := &cli.App{
		Commands: []*cli.Command{
			{
				Name:    "serve",
				Aliases: []string{"s"},
				Usage:   "Start as server",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:        "conf",
						Aliases:     []string{"c"},
						Value:       "server.yaml",
						EnvVars:     []string{"CERTICHAIN_CONF"},
						Destination: &configPath,
					},
					&cli.StringFlag{
						Name:        "sdkconf",
						Aliases:     []string{"s"},
						Value:       "config-network.yaml",
						EnvVars:     []string{"CERTICHAIN_SDK_CONF"},
						Destination: &sdkConfigPath,
					},
				},
				Action: serveFunc,
			},
		},
	}

	// Run the cli helper
	if err := app.Run(os.Args); err != nil {
		log.Fatalln(err)
	}
}

func getServeFunc(configPath *string, sdkConfigPath *string) func(c *cli.Context) error {
	serveFunc := func(c *cli.Context) error {
		// Create a Fabric SDK instance
		err := appinit.SetupSDK(*sdkConfigPath)
		if err != nil {
			return err
		}

		defer global.SDKInstance.Close()

		// Load serve info from `server.yaml`
		serverInfo, err := appinit.LoadServerInfo(*configPath)
		if err != nil {
			return err
		}

		// Extract some info from the config for later use
		orgName := serverInfo.User.OrgName
		userID := serverInfo.User.UserID
		isAnchorConfirmServer := serverInfo.IsAnchorConfirmServer
		global.ShowTimingLogs = serverInfo.ShowTimingLogs

		if len(serverInfo.Channels) == 0 {
			return fmt.Errorf("未指定任何通道")
		}
		channelID := serverInfo.Channels[0]

		if serverInfo.Admin == nil || serverInfo.Admin.Username == "" || serverInfo.Admin.PasswordHash == "" {
			return fmt.Errorf("未指定平台管理员凭据")
		}
		if serverInfo.JWTSecret == "" {
			return fmt.Errorf("未指定 JWT 密钥")
		}

		// Create clients
		if err = appinit.InstantiateChannelClient(global.SDKInstance, channelID, orgName, userID); err != nil {
			return err
		}
		if err = appinit.InstantiateEventClient(global.SDKInstance, channelID, orgName, userID); err != nil {
			return err
		}
		if err = appinit.InstantiateLedgerClient(global.SDKInstance, channelID, orgName, userID); err != nil {
			return err
		}

		// Open the local database
		localDB, err := appinit.SetupLocalDB(serverInfo.MySQLDSN)
		if err != nil {
			return err
		}

		// Create an IPFS shell
		ipfsSh, err := appinit.SetupIPFSShell(serverInfo.IPFSAPI)
		if err != nil {
			return err
		}

		serviceInfo := &service.Info{
			ChaincodeID:   serverInfo.ChaincodeID,
			ChannelClient: global.ChannelClientInstances[channelID][orgName][userID],
			EventClient:   global.EventClientInstances[channelID][orgName][userID],
			LedgerClient:  global.LedgerClientInstances[channelID][orgName][userID],
			DB:            localDB,
			IPFSSh:        ipfsSh,
		}

		chaincodeCtx := &chaincodectx.FabricChaincodeCtx{
			ChannelID:     channelID,
			OrgName:       orgName,
			Username:      userID,
			ChaincodeID:   serverInfo.ChaincodeID,
			ChannelClient: serviceInfo.ChannelClient,
			EventClient:   serviceInfo.EventClient,
			LedgerClient:  serviceInfo.LedgerClient,
		}

		tokenTTL := 24 * time.Hour
		if serverInfo.TokenTTLHours > 0 {
			tokenTTL = time.Duration(serverInfo.TokenTTLHours) * time.Hour
		}
		tokenIssuer := &auth.TokenIssuer{
			Key: []byte(serverInfo.JWTSecret),
			TTL: tokenTTL,
		}

		// Instantiate the services
		certStore := &db.LocalDBCertificateStore{DB: localDB}
		custodian := &service.LocalDBKeyCustodian{DB: localDB}
		notifier := &service.LogNotifier{}
		certBCAO := fabricbcao.NewCertificateBCAOFabricImpl(chaincodeCtx)

		institutionSvc := &service.InstitutionService{
			ServiceInfo:       serviceInfo,
			Custodian:         custodian,
			TokenIssuer:       tokenIssuer,
			AdminUsername:     serverInfo.Admin.Username,
			AdminPasswordHash: serverInfo.Admin.PasswordHash,
		}

		certSvc := &service.CertificateService{
			ServiceInfo:   serviceInfo,
			Institutions:  institutionSvc,
			Store:         certStore,
			Blobs:         &service.IPFSBlobStore{Sh: ipfsSh},
			Custodian:     custodian,
			Renderer:      &artifact.StampRenderer{},
			CertBCAO:      certBCAO,
			Notifier:      notifier,
			VerifyBaseURL: serverInfo.VerifyBaseURL,
		}

		verifySvc := &service.VerificationService{
			Store:     certStore,
			Custodian: custodian,
			CertBCAO:  certBCAO,
		}

		requestSvc := &service.RequestService{
			ServiceInfo: serviceInfo,
			CertService: certSvc,
			Notifier:    notifier,
		}

		// Prepare an anchor confirm server. It will be of use if the app is enabled as an anchor confirm server.
		acServer := anchorserver.NewAnchorConfirmServer(serviceInfo, certStore, runtime.NumCPU())
		if isAnchorConfirmServer {
			if err := acServer.Start(); err != nil {
				return err
			}
		}

		// Instantiate controllers
		pingPongController := &controller.PingPongController{}

		certController := &controller.CertificateController{
			GroupName:   "/certs",
			CertSvc:     certSvc,
			TokenIssuer: tokenIssuer,
		}

		verificationController := &controller.VerificationController{
			GroupName: "/verify",
			VerifySvc: verifySvc,
		}

		institutionController := &controller.InstitutionController{
			GroupName:      "/institutions",
			InstitutionSvc: institutionSvc,
			TokenIssuer:    tokenIssuer,
		}

		adminController := &controller.AdminController{
			GroupName:      "/admin",
			InstitutionSvc: institutionSvc,
			CertSvc:        certSvc,
			TokenIssuer:    tokenIssuer,
		}

		requestController := &controller.RequestController{
			GroupName:   "/requests",
			RequestSvc:  requestSvc,
			TokenIssuer: tokenIssuer,
		}

		// Register controller handlers
		router := gin.Default()
		router.Use(controller.CORSMiddleware())
		apiv1Group := router.Group("/api/v1")
		controller.RegisterHandlers(apiv1Group, pingPongController)
		controller.RegisterHandlers(apiv1Group, certController)
		controller.RegisterHandlers(apiv1Group, verificationController)
		controller.RegisterHandlers(apiv1Group, institutionController)
		controller.RegisterHandlers(apiv1Group, adminController)
		controller.RegisterHandlers(apiv1Group, requestController)

		// Start the HTTP server
		httpServer := &http.Server{
			Addr:    fmt.Sprintf(":%v", serverInfo.Port),
			Handler: router,
		}

		chanError := make(chan error)
		go func() {
			if err := httpServer.ListenAndServe(); err != nil {
				chanError <- errors.Wrap(err, "无法启动 HTTP 服务器")
			}
		}()

		// Listen Ctrl+C signals. On receiving a signal stops the app elegantly
		chanQuit := make(chan os.Signal, 1)
		signal.Notify(chanQuit, os.Interrupt)
		select {
		case err := <-chanError:
			return err
		case <-chanQuit:
			log.Infoln("收到 Ctrl+C 信号，正在退出程序...")

			// Stop the HTTP server elegantly
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			log.Infoln("正在停止 HTTP 服务器...")
			if err := httpServer.Shutdown(ctx); err != nil {
				return errors.Wrap(err, "无法正常停止 HTTP 服务器")
			}

			// Stop the anchor confirm server if enabled
			if isAnchorConfirmServer {
				log.Infoln("正在停止锚定确认服务器...")
				wg, err := acServer.Stop()
				if err != nil {
					return err
				}
				wg.Wait()
			}
		}

		return nil
	}

	return serveFunc
}
