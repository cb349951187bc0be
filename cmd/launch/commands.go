package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"token-launchpad-sol/internal/chain"
	"token-launchpad-sol/internal/config"
	"token-launchpad-sol/internal/consts"
	"token-launchpad-sol/internal/logic/domain"
	"token-launchpad-sol/internal/logic/workflow"
	"token-launchpad-sol/internal/svc"
	"token-launchpad-sol/internal/types"
	"token-launchpad-sol/pkg/logger"
)

type globalOptions struct {
	configFile string
	yes        bool
}

func RootCommand() *cobra.Command {
	opts := &globalOptions{}
	rootCmd := &cobra.Command{
		Use:           "launch",
		Short:         "Create SPL tokens with Metaplex metadata and mint supply to your wallet",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVarP(&opts.configFile, "config", "f", "etc/launchpad.yaml", "the config file")
	rootCmd.PersistentFlags().BoolVarP(&opts.yes, "yes", "y", false, "sign without asking for confirmation")

	rootCmd.AddCommand(createCommand(opts), mintCommand(opts), configCommand(opts))
	return rootCmd
}

func createCommand(opts *globalOptions) *cobra.Command {
	var (
		draft      domain.TokenMetadataDraft
		imagePath  string
		mintAmount float64
	)
	cmd := &cobra.Command{
		Use:   "create",
		Short: "create a token: upload image and metadata, then sign one transaction",
		RunE: func(cmd *cobra.Command, args []string) error {
			image, err := readImage(imagePath)
			if err != nil {
				return err
			}
			return withLaunchContext(opts, func(ctx context.Context, lc *svc.LaunchContext) error {
				res, err := workflow.Launch(ctx, lc.Deps(), workflow.LaunchRequest{
					Creation:   workflow.CreationRequest{Draft: draft, Image: image},
					MintAmount: mintAmount,
				}, lc.Confirm)
				if res.Created.Signature != "" {
					fmt.Fprintf(cmd.OutOrStdout(), "Token created\n  mint:      %s\n  metadata:  %s\n  signature: %s\n",
						res.Created.Mint.ToBase58(), res.Created.MetadataURI, res.Created.Signature)
				}
				if err != nil {
					return userError(err)
				}
				if res.Minted != nil {
					printMinted(cmd, *res.Minted)
				}
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&draft.Name, "name", "", "token name")
	cmd.Flags().StringVar(&draft.Symbol, "symbol", "", "token symbol (max 6 characters)")
	cmd.Flags().IntVar(&draft.Decimals, "decimals", consts.DefaultDecimals, "token decimals (0-9)")
	cmd.Flags().StringVar(&draft.ImageURI, "image-uri", "", "use an already hosted image instead of uploading one")
	cmd.Flags().StringVar(&imagePath, "image", "", "path of the token image to upload")
	cmd.Flags().Float64Var(&mintAmount, "mint-amount", 0, "mint this many tokens to the wallet after creation")
	return cmd
}

func mintCommand(opts *globalOptions) *cobra.Command {
	var (
		mintAddr string
		amount   float64
		decimals int
	)
	cmd := &cobra.Command{
		Use:   "mint",
		Short: "mint supply of an existing token to your wallet",
		RunE: func(cmd *cobra.Command, args []string) error {
			mint, err := types.TryPublicKeyFromBase58(mintAddr)
			if err != nil {
				return fmt.Errorf("invalid --mint: %w", err)
			}
			req := workflow.MintRequest{Mint: mint, Amount: amount}
			if decimals >= 0 {
				if decimals > 255 {
					return fmt.Errorf("invalid --decimals: %d", decimals)
				}
				d := uint8(decimals)
				req.Decimals = &d
			}
			return withLaunchContext(opts, func(ctx context.Context, lc *svc.LaunchContext) error {
				res, err := workflow.NewMintWorkflow(lc.Deps()).Run(ctx, req)
				if err != nil {
					return userError(err)
				}
				printMinted(cmd, res)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&mintAddr, "mint", "", "token mint address")
	cmd.Flags().Float64Var(&amount, "amount", 0, "amount in display units, e.g. 1.5")
	cmd.Flags().IntVar(&decimals, "decimals", -1, "token decimals; read from the mint account when omitted")
	_ = cmd.MarkFlagRequired("mint")
	_ = cmd.MarkFlagRequired("amount")
	return cmd
}

func configCommand(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "print the effective config with defaults applied and secrets masked",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := config.Load(opts.configFile)
			if err != nil {
				return err
			}
			out, err := config.Dump(c)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(out)
			return err
		},
	}
}

func withLaunchContext(opts *globalOptions, fn func(context.Context, *svc.LaunchContext) error) error {
	c, err := config.Load(opts.configFile)
	if err != nil {
		return err
	}
	if opts.yes {
		c.Wallet.AutoApprove = true
	}
	if err := logger.Init(c.LogConf.ToLogOption()); err != nil {
		return err
	}
	defer logger.Sync()

	lc, err := svc.NewLaunchContext(c, chain.TerminalConfirm(os.Stdin, os.Stderr))
	if err != nil {
		return err
	}
	defer lc.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return fn(ctx, lc)
}

func printMinted(cmd *cobra.Command, res workflow.MintResult) {
	fmt.Fprintf(cmd.OutOrStdout(), "Tokens minted\n  account:   %s\n  amount:    %d base units\n  signature: %s\n",
		res.Account.ToBase58(), res.AmountBaseUnits, res.Signature)
}

// userError 终端只展示一条面向用户的提示，细节写日志
func userError(err error) error {
	logger.Errorf("[Launch] %v", err)
	return fmt.Errorf("%s", domain.UserMessage(err))
}

// readImage 读取本地图片并按内容识别类型
func readImage(path string) (*domain.ImageArtifact, error) {
	if path == "" {
		return nil, nil
	}
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if info.Size() > consts.MaxImageBytes {
		return nil, fmt.Errorf("image exceeds %d MB", consts.MaxImageBytes/1024/1024)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return &domain.ImageArtifact{
		FileName:    filepath.Base(path),
		ContentType: http.DetectContentType(data),
		Data:        data,
	}, nil
}
