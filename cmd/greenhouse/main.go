// Command greenhouse runs a simulated greenhouse with closed-loop
// climate control: a PID-driven heater/fan pair, hysteresis irrigation,
// a web dashboard, and MQTT telemetry.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/sweeney/greenhouse/internal/config"
	"github.com/sweeney/greenhouse/internal/control"
	"github.com/sweeney/greenhouse/internal/history"
	"github.com/sweeney/greenhouse/internal/mqtt"
	"github.com/sweeney/greenhouse/internal/physics"
	"github.com/sweeney/greenhouse/internal/state"
	"github.com/sweeney/greenhouse/internal/web"
)

func main() {
	configPath := flag.String("config", "", "YAML config file (defaults apply when empty)")
	httpAddr := flag.String("http", "", "HTTP listen address (overrides config, empty keeps config)")
	broker := flag.String("broker", "", "MQTT broker address (overrides config)")
	historyPath := flag.String("history", "", "history CSV path (overrides config)")
	seed := flag.Int64("seed", 0, "simulation noise seed (overrides config, 0 keeps config)")
	printConfig := flag.Bool("print-config", false, "print resolved config and exit")

	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("fatal: %v", err)
	}
	if *httpAddr != "" {
		cfg.HTTPAddr = *httpAddr
	}
	if *broker != "" {
		cfg.Broker = *broker
	}
	if *historyPath != "" {
		cfg.HistoryPath = *historyPath
	}
	if *seed != 0 {
		cfg.NoiseSeed = *seed
	}

	if *printConfig {
		out, err := yaml.Marshal(cfg)
		if err != nil {
			log.Fatalf("fatal: %v", err)
		}
		fmt.Print(string(out))
		return
	}

	if err := run(cfg); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}

func run(cfg config.Config) error {
	startTime := time.Now()
	tracker := state.NewTracker(startTime, initialSnapshot(cfg))

	seed := cfg.NoiseSeed
	if seed == 0 {
		seed = startTime.UnixNano()
	}
	model := physics.New(modelParams(cfg.Physics), physics.NewRandNoise(seed))

	// History sink
	var sink history.Sink
	if cfg.HistoryPath != "" {
		csvSink, err := history.NewCSVSink(cfg.HistoryPath)
		if err != nil {
			return fmt.Errorf("init history: %w", err)
		}
		defer csvSink.Close()
		sink = csvSink
	}

	// MQTT
	var publisher mqtt.Publisher
	var mqttStatus mqtt.ConnectionStatus
	if cfg.Broker != "" {
		real, err := mqtt.NewRealPublisher(cfg.Broker, "greenhouse")
		if err != nil {
			return fmt.Errorf("init mqtt: %w", err)
		}
		defer real.Close()

		if err := real.SubscribeCommands(func(cmd state.Command) {
			tracker.Apply(cmd)
		}); err != nil {
			log.Printf("command subscription failed, continuing without: %v", err)
		}

		publisher = real
		mqttStatus = real
		tracker.SetMQTTConnected(real.IsConnected())

		startup := mqtt.SystemEvent{
			Timestamp: startTime,
			Event:     "STARTUP",
			Retained:  true,
		}
		if err := publisher.PublishSystem(startup); err != nil {
			log.Printf("failed to publish startup event: %v", err)
		} else {
			log.Printf("published startup event")
		}
	}

	// Web dashboard + API
	if cfg.HTTPAddr != "" {
		srv := web.New(cfg.HTTPAddr, tracker, cfg.HistoryPath)
		go func() {
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Printf("http server error: %v", err)
			}
		}()
		defer srv.Shutdown(context.Background())
		log.Printf("http server listening on %s", cfg.HTTPAddr)
	}

	log.Printf("started: tick=%v setpoint=%.1f broker=%q history=%q",
		cfg.Tick, cfg.Control.SetpointC, cfg.Broker, cfg.HistoryPath)

	ticker := time.NewTicker(cfg.Tick)
	defer ticker.Stop()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	l := newLoop(cfg, tracker, model, sink, publisher, mqttStatus)
	return runLoop(l, time.Now, ticker.C, sigCh)
}

// loop bundles the control loop's collaborators. The PID, PWM, and
// irrigation controllers and the unrounded model conditions are owned
// exclusively by the loop goroutine; everything shared goes through the
// tracker.
type loop struct {
	cfg        config.Config
	tracker    *state.Tracker
	pid        *control.PID
	pwm        *control.PWM
	irrigation control.Irrigation
	model      *physics.Model
	cond       physics.Conditions

	sink       history.Sink
	publisher  mqtt.Publisher
	mqttStatus mqtt.ConnectionStatus

	lastAlarm string
}

func newLoop(cfg config.Config, tracker *state.Tracker, model *physics.Model, sink history.Sink, publisher mqtt.Publisher, mqttStatus mqtt.ConnectionStatus) *loop {
	return &loop{
		cfg:     cfg,
		tracker: tracker,
		pid:     control.NewPID(cfg.Control.Kp, cfg.Control.Ki, cfg.Control.Kd, cfg.Control.IntegralLimit),
		pwm:     control.NewPWM(cfg.Control.PWMPeriod),
		irrigation: control.Irrigation{
			Low:           cfg.Control.SoilLow,
			High:          cfg.Control.SoilHigh,
			MaxRunSeconds: cfg.Control.MaxPumpSeconds,
		},
		model: model,
		cond: physics.Conditions{
			Temperature:  cfg.Physics.InitialTempC,
			Humidity:     cfg.Physics.InitialHum,
			SoilMoisture: cfg.Physics.InitialSoil,
		},
		sink:       sink,
		publisher:  publisher,
		mqttStatus: mqttStatus,
	}
}

func runLoop(l *loop, now func() time.Time, tick <-chan time.Time, sig <-chan os.Signal) error {
	for {
		select {
		case s := <-sig:
			log.Printf("received %v, shutting down", s)
			signalName := "UNKNOWN"
			if s == syscall.SIGINT {
				signalName = "SIGINT"
			} else if s == syscall.SIGTERM {
				signalName = "SIGTERM"
			}
			if l.publisher != nil {
				event := mqtt.SystemEvent{
					Timestamp: now(),
					Event:     "SHUTDOWN",
					Reason:    signalName,
					Retained:  true,
				}
				if err := l.publisher.PublishSystem(event); err != nil {
					log.Printf("failed to publish shutdown event: %v", err)
				} else {
					log.Printf("published shutdown event")
				}
			}
			return nil

		case <-tick:
			l.step(now())
		}
	}
}

// step runs one control tick. The whole read-modify-write happens inside
// a single tracker.Update call, so external commands land either fully
// before or fully after the tick.
func (l *loop) step(t time.Time) {
	dt := l.cfg.Tick.Seconds()

	// A command that re-enabled automatic mode asked for a controller
	// reset; honor it before computing.
	if l.tracker.ConsumePIDReset() {
		l.pid.Reset()
	}

	var snap state.Snapshot
	l.tracker.Update(func(s *state.Snapshot) {
		if s.AutoMode {
			signal := l.pid.Compute(s.Temperature, s.Setpoint, dt)
			s.PIDOutput = physics.Round2(signal)
			s.HeaterOn, s.FanOn = l.pwm.Apply(signal)
			s.PumpOn = l.irrigation.Decide(s.SoilMoisture, s.PumpOn, s.PumpRunSeconds)
		} else {
			// Manual mode leaves the actuators alone but keeps the PWM
			// cycle advancing, so re-entering auto resumes mid-cycle
			// instead of replaying a stale position.
			l.pwm.Advance()
		}

		// A manual pump-off zeroes the run counter; carry that into the
		// model before it increments.
		l.cond.PumpRunSeconds = s.PumpRunSeconds
		l.cond = l.model.Advance(l.cond, physics.Actuators{
			Heater: s.HeaterOn,
			Fan:    s.FanOn,
			Pump:   s.PumpOn,
		}, dt)

		s.Temperature = physics.Round2(l.cond.Temperature)
		s.Humidity = physics.Round2(l.cond.Humidity)
		s.SoilMoisture = physics.Round2(l.cond.SoilMoisture)
		s.PumpRunSeconds = l.cond.PumpRunSeconds
		s.Alarm = control.EvaluateAlarm(s.Temperature, s.SoilMoisture)
		s.Now = t

		snap = *s
	})

	if l.sink != nil {
		rec := history.Record{
			Timestamp:    t,
			Temperature:  snap.Temperature,
			Humidity:     snap.Humidity,
			SoilMoisture: snap.SoilMoisture,
			HeaterOn:     snap.HeaterOn,
			FanOn:        snap.FanOn,
			PumpOn:       snap.PumpOn,
			Alarm:        snap.Alarm,
		}
		if err := l.sink.Append(rec); err != nil {
			log.Printf("history append error: %v", err)
			// Don't crash on history failure
		}
	}

	if l.mqttStatus != nil {
		l.tracker.SetMQTTConnected(l.mqttStatus.IsConnected())
	}
	if l.publisher != nil {
		if err := l.publisher.PublishTelemetry(mqtt.TelemetryFromSnapshot(snap)); err != nil {
			log.Printf("telemetry publish error: %v", err)
		}
		if snap.Alarm != l.lastAlarm {
			event := mqtt.AlarmEvent{
				Timestamp: t,
				Alarm:     snap.Alarm,
				Previous:  l.lastAlarm,
			}
			if err := l.publisher.PublishAlarm(event); err != nil {
				log.Printf("alarm publish error: %v", err)
			}
		}
	}
	l.lastAlarm = snap.Alarm
}

func initialSnapshot(cfg config.Config) state.Snapshot {
	return state.Snapshot{
		Temperature:  physics.Round2(cfg.Physics.InitialTempC),
		Humidity:     physics.Round2(cfg.Physics.InitialHum),
		SoilMoisture: physics.Round2(cfg.Physics.InitialSoil),
		AutoMode:     true,
		Setpoint:     cfg.Control.SetpointC,
		Config: state.Config{
			TickMs:      cfg.Tick.Milliseconds(),
			SetpointC:   cfg.Control.SetpointC,
			PWMPeriod:   cfg.Control.PWMPeriod,
			SoilLow:     cfg.Control.SoilLow,
			SoilHigh:    cfg.Control.SoilHigh,
			MaxPumpSecs: cfg.Control.MaxPumpSeconds,
			Broker:      cfg.Broker,
			HTTPAddr:    cfg.HTTPAddr,
			HistoryPath: cfg.HistoryPath,
		},
	}
}

func modelParams(p config.PhysicsConfig) physics.Params {
	return physics.Params{
		AmbientTempC:      p.AmbientTempC,
		HeaterRate:        p.HeaterRate,
		FanRate:           p.FanRate,
		HeatLossFactor:    p.HeatLoss,
		PumpRate:          p.PumpRate,
		EvapBase:          p.EvapBase,
		SoilEvapFactor:    p.SoilEvap,
		AirDryingFactor:   p.AirDrying,
		SoilToAirTransfer: p.SoilToAir,
		HumidityDrift:     p.HumidityDrift,
	}
}
