// The matching engine server. It accepts orders over TCP (and optionally
// from a Kafka topic), matches them on a single book, confirms executions to
// the clients involved, and records every trade to a CSV log and optionally
// to a Kafka topic. On shutdown it prints whatever is still resting on the
// book.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/tradeforge/matching-engine/internal/app/engine"
	bookprinter "github.com/tradeforge/matching-engine/internal/usecase/book-printer"
	matchpublisher "github.com/tradeforge/matching-engine/internal/usecase/match-publisher"
	orderreader "github.com/tradeforge/matching-engine/internal/usecase/order-reader"
	orderserver "github.com/tradeforge/matching-engine/internal/usecase/order-server"
	tradedispatcher "github.com/tradeforge/matching-engine/internal/usecase/trade-dispatcher"
	tradelog "github.com/tradeforge/matching-engine/internal/usecase/trade-log"
	"github.com/tradeforge/matching-engine/pkg/config"
	"github.com/tradeforge/matching-engine/pkg/logger"
)

var cfg *config.Config
var log *logger.Logger

func init() {
	var err error
	cfg, err = config.Load()
	if err != nil {
		panic(err)
	}

	log, err = logger.NewLogger(logger.WithLoggingLevel(logger.Level(cfg.LogLevel)))
	if err != nil {
		panic(err)
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	matcher := engine.New(log, &engine.Options{Instrument: cfg.Instrument})

	server := orderserver.New(cfg.ListenAddr, matcher, log)
	if err := server.Start(ctx); err != nil {
		log.Error(err, logger.Field{Key: "action", Value: "start_order_server"})
		return
	}

	// Trade sinks, in delivery order: client confirmations first, then the
	// durable log, then the optional Kafka stream.
	sinks := []tradedispatcher.Sink{server}

	var tlog *tradelog.Log
	if cfg.TradeLogPath != "" {
		var err error
		tlog, err = tradelog.Open(cfg.TradeLogPath)
		if err != nil {
			log.Error(err, logger.Field{Key: "action", Value: "open_trade_log"})
			return
		}
		sinks = append(sinks, tlog)
	}

	var publisher *matchpublisher.Publisher
	if cfg.KafkaEnabled() {
		publisher = matchpublisher.NewPublisher(cfg, log)
		sinks = append(sinks, publisher)
	}

	dispatcher := tradedispatcher.New(matcher.Trades(), cfg.TradePollInterval, log, sinks...)

	// The dispatcher gets its own context so it can keep draining trades
	// after the intake and engine have already been told to stop.
	dispatchCtx, stopDispatch := context.WithCancel(context.Background())

	engineDone := make(chan struct{})
	go func() {
		matcher.Run(ctx)
		close(engineDone)
	}()

	dispatchDone := make(chan struct{})
	go func() {
		dispatcher.Run(dispatchCtx)
		close(dispatchDone)
	}()

	if cfg.KafkaOrderReaderEnabled() {
		reader := orderreader.NewReader(cfg, log)
		defer reader.Close()
		consumer := orderreader.NewConsumer(reader, matcher, log)
		go func() {
			if err := consumer.Run(ctx); err != nil {
				log.Error(err, logger.Field{Key: "action", Value: "kafka_order_consumer"})
			}
		}()
	}

	log.Info("matching engine started",
		logger.Field{Key: "instrument", Value: cfg.Instrument},
		logger.Field{Key: "listen_addr", Value: server.Addr().String()},
		logger.Field{Key: "kafka_enabled", Value: cfg.KafkaEnabled()},
	)

	<-ctx.Done()
	log.Info("shutdown signal received")

	// Stop intake first so no new orders arrive, then let the engine finish
	// whatever is already queued.
	if err := server.Stop(); err != nil {
		log.Error(err, logger.Field{Key: "action", Value: "stop_order_server"})
	}
	matcher.Stop()
	<-engineDone

	// Stop the polling loop and flush everything still queued.
	stopDispatch()
	<-dispatchDone
	dispatcher.Drain(context.Background())

	if err := bookprinter.Print(os.Stdout, matcher.Book()); err != nil {
		log.Error(err, logger.Field{Key: "action", Value: "print_book"})
	}

	if tlog != nil {
		if err := tlog.Close(); err != nil {
			log.Error(err, logger.Field{Key: "action", Value: "close_trade_log"})
		}
	}
	if publisher != nil {
		if err := publisher.Close(); err != nil {
			log.Error(err, logger.Field{Key: "action", Value: "close_match_publisher"})
		}
	}

	log.Info("matching engine shutdown complete",
		logger.Field{Key: "orders_processed", Value: matcher.OrdersProcessed()},
		logger.Field{Key: "trades_executed", Value: matcher.TradesExecuted()},
		logger.Field{Key: "trades_dispatched", Value: dispatcher.Dispatched()},
	)
	_ = log.Sync()
}
