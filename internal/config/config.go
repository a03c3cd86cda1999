package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// 管线策略的默认值。这些是显式的策略决定，而不是魔法数字：
// 块大小/重叠与上游入库服务约定一致，批大小受向量库单次请求载荷限制，
// 回退维度对应 text-embedding-ada-002 的输出维度。
const (
	DefaultChunkSize         = 1000 // 每个文本块的最大字符数
	DefaultChunkOverlap      = 20   // 相邻文本块之间的重叠字符数
	DefaultUpsertBatchSize   = 500  // 单次向量写入的最大记录数
	DefaultFallbackDimension = 1536 // 向量库未报告维度时假定的维度
	DefaultTopK              = 4    // 相似度查询默认返回的结果数
)

// MilvusConfig 定义了 Milvus 向量库的连接配置。
type MilvusConfig struct {
	Address    string `yaml:"address"`    // Milvus 服务地址
	Collection string `yaml:"collection"` // 目标集合名称（命名空间映射为该集合内的分区）
}

// MySQLConfig 定义了 MySQL 数据库的连接配置。
type MySQLConfig struct {
	Address         string `yaml:"address"`         // MySQL 服务器地址
	Username        string `yaml:"username"`        // 用户名
	Password        string `yaml:"password"`        // 密码
	Database        string `yaml:"database"`        // 数据库名称
	MaxOpenConns    int    `yaml:"maxOpenConns"`    // 最大打开连接数
	MaxIdleConns    int    `yaml:"maxIdleConns"`    // 最大空闲连接数
	ConnMaxLifetime int    `yaml:"connMaxLifetime"` // 连接最大生命周期 (秒)
}

// MinIOConfig 定义了 MinIO 对象存储的连接配置。
type MinIOConfig struct {
	Endpoint  string `yaml:"endpoint"`  // MinIO 服务端点
	AccessKey string `yaml:"accessKey"` // 访问密钥
	SecretKey string `yaml:"secretKey"` // Secret 密钥
	Bucket    string `yaml:"bucket"`    // 向量快照存储桶名称
	Secure    bool   `yaml:"secure"`    // 是否使用HTTPS
}

// DatabaseConfigs 包含所有外部存储的配置。
type DatabaseConfigs struct {
	Milvus MilvusConfig `yaml:"milvus"` // Milvus 向量库配置
	MySQL  MySQLConfig  `yaml:"mysql"`  // MySQL 数据库配置
	MinIO  MinIOConfig  `yaml:"minio"`  // MinIO 对象存储配置
}

// OpenAIConfig 包含了 OpenAI Embedding 模型的配置。
type OpenAIConfig struct {
	APIKey string `yaml:"apiKey"` // OpenAI API 密钥
	Model  string `yaml:"model"`  // 模型名称 (例如: "text-embedding-ada-002")
}

// OllamaConfig 包含了 Ollama Embedding 模型的配置。
type OllamaConfig struct {
	BaseURL string `yaml:"baseURL"` // Ollama 服务地址
	Model   string `yaml:"model"`   // 模型名称
}

// EmbeddingConfig 包含了不同Embedding提供商的配置。
type EmbeddingConfig struct {
	Provider string       `yaml:"provider"` // Embedding提供商 (例如: "openai", "ollama")
	OpenAI   OpenAIConfig `yaml:"openai"`   // OpenAI 模型配置
	Ollama   OllamaConfig `yaml:"ollama"`   // Ollama 模型配置
}

// PipelineConfig 定义了文档入库管线的策略参数。
type PipelineConfig struct {
	ChunkSize         int    `yaml:"chunkSize"`         // 每个文本块的最大字符数
	ChunkOverlap      int    `yaml:"chunkOverlap"`      // 相邻文本块之间的重叠字符数
	UpsertBatchSize   int    `yaml:"upsertBatchSize"`   // 单次向量写入的最大记录数
	FallbackDimension int    `yaml:"fallbackDimension"` // 向量库未报告维度时假定的维度
	TopK              int    `yaml:"topK"`              // 相似度查询默认返回的结果数
	CacheDir          string `yaml:"cacheDir"`          // 向量快照的本地缓存目录
	CacheBackend      string `yaml:"cacheBackend"`      // 快照后端 ("disk" 或 "minio")
}

// AppInfo 对应 'app' 部分，包含应用程序的基本信息。
type AppInfo struct {
	Name        string `yaml:"name"`        // 应用程序名称
	Version     string `yaml:"version"`     // 应用程序版本
	Environment string `yaml:"environment"` // 运行环境 (例如: "development", "production")
}

// LoggerConfig 定义了日志记录器的配置。
type LoggerConfig struct {
	Level string `yaml:"level"` // 日志级别 (例如: "info", "debug", "warn", "error")
}

// AppConfig 是整个 YAML 文件的根结构，包含了应用程序的所有配置。
type AppConfig struct {
	App       AppInfo         `yaml:"app"`       // 应用程序信息
	Logger    LoggerConfig    `yaml:"logger"`    // 日志记录器配置
	Embedding EmbeddingConfig `yaml:"embedding"` // Embedding 配置部分
	Pipeline  PipelineConfig  `yaml:"pipeline"`  // 管线策略配置
	Databases DatabaseConfigs `yaml:"databases"` // 外部存储配置
}

// LoadConfig 从指定路径读取并解析 YAML 配置文件。
// 未显式配置的管线策略参数会落到上面声明的默认值。
func LoadConfig(path string) (*AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("无法读取配置文件 %s: %w", path, err)
	}

	var cfg AppConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("无法解析配置文件 %s: %w", path, err)
	}

	applyPipelineDefaults(&cfg.Pipeline)
	return &cfg, nil
}

func applyPipelineDefaults(p *PipelineConfig) {
	if p.ChunkSize <= 0 {
		p.ChunkSize = DefaultChunkSize
	}
	if p.ChunkOverlap <= 0 {
		p.ChunkOverlap = DefaultChunkOverlap
	}
	if p.UpsertBatchSize <= 0 {
		p.UpsertBatchSize = DefaultUpsertBatchSize
	}
	if p.FallbackDimension <= 0 {
		p.FallbackDimension = DefaultFallbackDimension
	}
	if p.TopK <= 0 {
		p.TopK = DefaultTopK
	}
	if p.CacheBackend == "" {
		p.CacheBackend = "disk"
	}
}
