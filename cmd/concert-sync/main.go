package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	apihttp "github.com/hallyusync/concert-sync/internal/api"
	"github.com/hallyusync/concert-sync/internal/applog"
	"github.com/hallyusync/concert-sync/internal/config"
	"github.com/hallyusync/concert-sync/internal/crawler"
	"github.com/hallyusync/concert-sync/internal/db"
	"github.com/hallyusync/concert-sync/internal/llm"
	"github.com/hallyusync/concert-sync/internal/orchestrator"
	"github.com/hallyusync/concert-sync/internal/pipeline"
	"github.com/hallyusync/concert-sync/internal/scheduler"
	"github.com/hallyusync/concert-sync/internal/sync"
)

const banner = `
  ____                                 _            ____
 / ___| ___   _ __    ___  ___  _ __  | |_         / ___|  _   _  _ __    ___
| |    / _ \ | '_ \  / __|/ _ \| '__| | __| _____ \___ \ | | | || '_ \  / __|
| |___| (_) || | | || (__|  __/| |    | |_ |_____| ___) || |_| || | | || (__
 \____|\___/ |_| |_| \___|\___||_|     \__|       |____/  \__, ||_| |_| \___|
                                                            |___/
--------------------------------------------------------------------------------
`

func main() {
	closer, err := applog.Setup(applog.Options{Name: "concert-sync", EnableConsoleLog: true})
	if err != nil {
		fmt.Fprintf(os.Stderr, "[FATAL] 로그 시스템 초기화 실패: %v\n", err)
		os.Exit(1)
	}
	defer closer.Close()

	fmt.Print(banner)

	cfg, err := config.Load()
	if err != nil {
		applog.WithComponentAndFields("main", applog.Fields{"error": err.Error()}).Fatal("환경설정 로드 실패")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sourceDB, sourceDialect, err := db.Open(cfg.SourceDatabaseURL)
	if err != nil {
		applog.WithComponentAndFields("main", applog.Fields{"error": err.Error()}).Fatal("소스 데이터베이스 연결 실패")
	}
	defer sourceDB.Close()

	targetDB, targetDialect, err := db.Open(cfg.TargetDatabaseURL)
	if err != nil {
		applog.WithComponentAndFields("main", applog.Fields{"error": err.Error()}).Fatal("대상 데이터베이스 연결 실패")
	}
	defer targetDB.Close()

	if err := db.EnsureSchema(ctx, targetDB, targetDialect); err != nil {
		applog.WithComponentAndFields("main", applog.Fields{"error": err.Error()}).Fatal("대상 데이터베이스 스키마 생성 실패")
	}

	artistRepo := db.NewArtistRepository(sourceDB, sourceDialect)
	crawledRepo := db.NewCrawledDataRepository(targetDB, targetDialect)
	resultRepo := db.NewConcertSearchResultRepository(targetDB, targetDialect)

	registry := crawler.NewRegistry(
		crawler.NewInterpark(),
		crawler.NewMelon(),
		crawler.NewTicketLink(),
		crawler.NewYes24(),
	)
	orch := orchestrator.New(registry)

	var analyzer *llm.Analyzer
	if cfg.HasLLM() {
		analyzer, err = llm.New(ctx, cfg.GoogleAPIKey, cfg.AIModel)
		if err != nil {
			applog.WithComponentAndFields("main", applog.Fields{"error": err.Error()}).Fatal("LLM 분석기 초기화 실패")
		}
	} else {
		applog.WithComponent("main").Warn("GOOGLE_API_KEY가 설정되지 않아 LLM 분석 없이 크롤링 결과만 저장합니다")
	}

	var pipelineAnalyzer pipeline.Analyzer
	if analyzer != nil {
		pipelineAnalyzer = analyzer
	}
	pl := pipeline.New(orch, pipelineAnalyzer, targetDB, crawledRepo, resultRepo)
	syncService := sync.New(pl, targetDB, artistRepo, crawledRepo, resultRepo)

	var sched *scheduler.Scheduler
	if cfg.SchedulerEligible() {
		sched = scheduler.New(syncService)
		if err := sched.Start(cfg); err != nil {
			applog.WithComponentAndFields("main", applog.Fields{"error": err.Error()}).Fatal("스케줄러 시작 실패")
		}
		defer sched.Stop()
	} else {
		applog.WithComponent("main").Info("스케줄러가 비활성화되어 있습니다 (수동 동기화만 가능합니다)")
	}

	handler := apihttp.NewHandler(syncService, sourceDB, targetDB, cfg.HasLLM())
	e := apihttp.NewServer(handler)

	go func() {
		if err := e.Start(cfg.HTTPAddr); err != nil && err != http.ErrServerClosed {
			applog.WithComponentAndFields("main", applog.Fields{"error": err.Error()}).Error("HTTP 서버 종료")
		}
	}()

	termC := make(chan os.Signal, 1)
	signal.Notify(termC, syscall.SIGINT, syscall.SIGTERM)
	<-termC

	applog.WithComponent("main").Info("종료 신호를 수신했습니다")
	cancel()
	_ = e.Shutdown(context.Background())
}
