package milvus

import (
	"context"
	"fmt"
	"log"
	"sync"

	"vectorbridge/internal/config"

	"github.com/milvus-io/milvus-sdk-go/v2/client"
)

var (
	instance *MilvusClient
	once     sync.Once
	initErr  error
)

// ErrNotReady 表示目标集合不存在或尚未就绪。携带该错误的调用整体失败，
// 但稍后重试整个调用是安全的。
var ErrNotReady = fmt.Errorf("milvus collection not ready")

// MilvusClient 包含了 Milvus 客户端实例和相关配置。
type MilvusClient struct {
	Client client.Client        // Milvus 客户端实例。
	Config *config.MilvusConfig // Milvus 配置。
}

// GetClient 使用单例模式创建并返回一个 Milvus 客户端实例。
func GetClient(ctx context.Context, cfg *config.MilvusConfig) (*MilvusClient, error) {
	once.Do(func() {
		// 使用配置中的地址创建 Milvus 客户端。
		c, err := client.NewClient(ctx, client.Config{Address: cfg.Address})
		if err != nil {
			initErr = fmt.Errorf("无法连接到 Milvus: %w", err)
			return
		}
		log.Println("✅ 成功连接到 Milvus!")
		instance = &MilvusClient{Client: c, Config: cfg}
	})
	return instance, initErr
}

// Ready 校验目标集合存在并已加载。集合缺失或加载失败时返回包装了
// ErrNotReady 的错误，调用方应将其视为连接级失败。
func (c *MilvusClient) Ready(ctx context.Context) error {
	collName := c.Config.Collection

	has, err := c.Client.HasCollection(ctx, collName)
	if err != nil {
		return fmt.Errorf("%w: 无法检查集合 '%s': %v", ErrNotReady, collName, err)
	}
	if !has {
		return fmt.Errorf("%w: 集合 '%s' 不存在", ErrNotReady, collName)
	}

	// 加载集合以便执行查询。重复加载是幂等的。
	if err := c.Client.LoadCollection(ctx, collName, false); err != nil {
		return fmt.Errorf("%w: 加载集合 '%s' 失败: %v", ErrNotReady, collName, err)
	}
	return nil
}

// Close 安全地关闭与 Milvus 的连接。
func (c *MilvusClient) Close() {
	if c.Client != nil {
		c.Client.Close()
		log.Println("ℹ️ 已安全关闭 Milvus 连接。")
	}
}

// HealthCheck 检查 Milvus 连接的健康状况。
func (c *MilvusClient) HealthCheck(ctx context.Context) error {
	if c.Client == nil {
		return fmt.Errorf("Milvus client is nil")
	}
	_, err := c.Client.ListCollections(ctx)
	if err != nil {
		return fmt.Errorf("Milvus health check failed: %w", err)
	}
	return nil
}
