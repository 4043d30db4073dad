// Command remindd runs the reminder daemon: it rehydrates persisted
// reminders, serves alarm wake-ups in the terminal, and can set a new
// reminder from the command line before it starts waiting.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/nhle/task-reminders/internal/alarm"
	"github.com/nhle/task-reminders/internal/model"
	"github.com/nhle/task-reminders/internal/remind"
	"github.com/nhle/task-reminders/internal/store"
	"github.com/nhle/task-reminders/internal/ui/alarmscreen"
)

func main() {
	var (
		configPath = flag.String("config", model.DefaultConfigPath(), "path to the config file")
		user       = flag.String("user", "local", "user id owning the tasks")
		title      = flag.String("title", "", "create a task with this title and set a reminder for it")
		desc       = flag.String("desc", "", "description for the created task")
		dueDate    = flag.String("due-date", "", "task due date (2006-01-02)")
		dueTime    = flag.String("due-time", "", "task due time (15:04)")
		offset     = flag.Int("offset", 0, "remind this many minutes before the due time")
		at         = flag.String("at", "", "remind at this clock time (15:04); rolls to tomorrow if passed")
	)
	flag.Parse()

	if err := run(*configPath, *user, *title, *desc, *dueDate, *dueTime, *offset, *at); err != nil {
		log.Fatal(err)
	}
}

func run(configPath, user, title, desc, dueDate, dueTime string, offset int, at string) error {
	cfg, err := model.LoadConfig(configPath)
	if err != nil {
		return err
	}

	st, err := store.NewSQLiteStore(cfg.Database.Path)
	if err != nil {
		return err
	}
	defer st.Close()

	notifier := alarm.NewLogNotifier()

	var upcoming *alarm.UpcomingNotifier
	leadTimer := alarm.NewLocalWakeTimer(func(p alarm.FirePayload) {
		upcoming.HandleLeadFire(p)
	})
	defer leadTimer.Close()
	upcoming = alarm.NewUpcomingNotifier(
		leadTimer, notifier, time.Duration(cfg.Reminders.LeadMinutes)*time.Minute,
	)

	var svc *remind.Service
	alarmTimer := alarm.NewLocalWakeTimer(func(p alarm.FirePayload) {
		if err := svc.HandleFire(context.Background(), p); err != nil {
			log.Printf("remindd: handling alarm for task %s: %v", p.TaskID, err)
		}
	})
	defer alarmTimer.Close()

	scheduler := alarm.NewScheduler(alarmTimer)
	lifecycle := alarm.NewLifecycle(alarmscreen.NewPresenter(), notifier)

	svc = remind.NewService(st, scheduler, upcoming, lifecycle, remind.Options{
		DefaultSnoozeMinutes: cfg.Reminders.DefaultSnoozeMinutes,
		FirePastDue:          cfg.Reminders.FirePastDue,
	})

	ctx := context.Background()
	if err := svc.Rehydrate(ctx); err != nil {
		return err
	}

	if title != "" {
		if err := setFromFlags(ctx, st, svc, user, title, desc, dueDate, dueTime, offset, at); err != nil {
			return err
		}
	}

	log.Printf("remindd: waiting for alarms (ctrl+c to exit)")

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	<-sig

	return nil
}

// setFromFlags creates a task from the command-line flags and sets its
// reminder.
func setFromFlags(
	ctx context.Context,
	st store.Store,
	svc *remind.Service,
	user, title, desc, dueDate, dueTime string,
	offset int,
	at string,
) error {
	task := model.Task{
		UserID:      user,
		TaskID:      uuid.New().String(),
		Title:       title,
		Description: desc,
		DueDate:     dueDate,
		DueTime:     dueTime,
	}
	if err := st.UpsertTask(ctx, task); err != nil {
		return err
	}

	var policy model.Policy
	switch {
	case offset > 0:
		policy = model.FixedOffsetBefore(offset)
	case at != "":
		clock, err := time.Parse(model.DueTimeLayout, at)
		if err != nil {
			return fmt.Errorf("parsing -at %q: %w", at, err)
		}
		now := time.Now()
		policy = model.AtAbsoluteTime(time.Date(
			now.Year(), now.Month(), now.Day(),
			clock.Hour(), clock.Minute(), 0, 0, now.Location(),
		))
	default:
		return fmt.Errorf("either -offset or -at is required with -title")
	}

	rem, outcome, err := svc.Set(ctx, task, policy)
	if err != nil {
		return err
	}

	log.Printf("remindd: reminder set for %q at %s (%s)",
		task.Title, rem.FireAt.Local().Format("2006-01-02 15:04"), outcome)
	return nil
}
