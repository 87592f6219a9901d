// Package main 签发 API 访问令牌
package main

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"

	"icang-ai-api/internal/config"
	"icang-ai-api/internal/domain/entity"
	"icang-ai-api/pkg/utils"
)

func main() {
	// 0. 读取 .env 与命令行参数
	_ = godotenv.Load()

	var (
		client = pflag.StringP("client", "c", "", "client name embedded in the token")
		modes  = pflag.StringSlice("modes", nil, "allowed modes (default: all)")
		ttl    = pflag.Duration("ttl", 0, "token lifetime (default: security.jwt.expiration)")
	)
	pflag.Parse()

	// 1. 加载配置
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	jwtCfg := cfg.Security.JWT
	if strings.TrimSpace(jwtCfg.Secret) == "" {
		log.Fatal("security.jwt.secret is empty; set JWT_SECRET")
	}

	// 2. 校验参数
	if strings.TrimSpace(*client) == "" {
		*client = os.Getenv("BOOTSTRAP_CLIENT")
	}
	if strings.TrimSpace(*client) == "" {
		*client = "default"
	}
	allowed := make([]string, 0, len(*modes))
	for _, m := range *modes {
		mode, err := entity.ParseMode(m)
		if err != nil {
			log.Fatalf("invalid mode %q: %v", m, err)
		}
		allowed = append(allowed, mode.String())
	}
	// 有效期：命令行 > 配置 > 30 天
	lifetime := *ttl
	if lifetime <= 0 {
		lifetime = jwtCfg.Expiration
	}
	if lifetime <= 0 {
		lifetime = 30 * 24 * time.Hour
	}

	// 3. 签发令牌
	token, err := utils.NewJWTManager(jwtCfg.Secret, jwtCfg.Issuer).GenerateToken(*client, allowed, lifetime)
	if err != nil {
		log.Fatalf("failed to sign token: %v", err)
	}

	// 4. 输出令牌；提示信息写到 stderr，stdout 只有令牌
	if !jwtCfg.Enabled {
		fmt.Fprintln(os.Stderr, "warning: security.jwt.enabled is false, the API will not check this token")
	}
	fmt.Fprintf(os.Stderr, "client=%s modes=%v expires_in=%s\n", *client, allowed, lifetime)
	fmt.Println(token)
}
