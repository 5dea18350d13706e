package config_test

import (
	"errors"
	"testing"

	"github.com/okian/medals/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfig_New(t *testing.T) {
	convey.Convey("Given a new config with default options", t, func() {
		cfg := config.New()

		convey.Convey("Then it should have sensible defaults", func() {
			convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
			convey.So(cfg.LogLevel, convey.ShouldEqual, "info")
			convey.So(cfg.DatasetPath, convey.ShouldEqual, "data/olympic_medals_2000_2024.csv")
			convey.So(cfg.RetrievalTopK, convey.ShouldEqual, 10)
			convey.So(cfg.MaxRankingLimit, convey.ShouldEqual, 100)
			convey.So(cfg.ReloadQueueSize, convey.ShouldEqual, 8)
			convey.So(cfg.MCP.Transport, convey.ShouldEqual, config.TransportStdio)
			convey.So(cfg.Scraper.Years, convey.ShouldResemble, []int{2000, 2004, 2008, 2012, 2016, 2020, 2024})
			convey.So(cfg.LLM.APIKey, convey.ShouldBeEmpty)
		})

		convey.Convey("Then it should validate", func() {
			convey.So(cfg.Validate(), convey.ShouldBeNil)
		})
	})
}

func TestConfig_Validate(t *testing.T) {
	convey.Convey("Given configs violating one rule each", t, func() {
		cases := map[string]func(*config.Config){
			"retrieval_top_k":     func(c *config.Config) { c.RetrievalTopK = 0 },
			"max_ranking_limit":   func(c *config.Config) { c.MaxRankingLimit = -1 },
			"reload_queue_size":   func(c *config.Config) { c.ReloadQueueSize = 0 },
			"reload_interval_sec": func(c *config.Config) { c.ReloadIntervalSec = -5 },
			"dataset_path":        func(c *config.Config) { c.DatasetPath = " " },
			"mcp.transport":       func(c *config.Config) { c.MCP.Transport = "sse" },
			"llm.model":           func(c *config.Config) { c.LLM.APIKey = "k"; c.LLM.Model = "" },
		}

		for field, mutate := range cases {
			cfg := config.New()
			mutate(cfg)
			err := cfg.Validate()

			convey.So(err, convey.ShouldNotBeNil)
			convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
			convey.So(err.Error(), convey.ShouldContainSubstring, field)
		}
	})
}
