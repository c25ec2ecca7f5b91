// Command sh1106-clock shows the time and the local IP address on a SH1106 display.
//
// The display is cleared when the command is interrupted. Use -emulate to draw
// on the terminal instead of a display.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"image"
	_ "image/png"
	"io"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "golang.org/x/image/bmp"
	xfont "golang.org/x/image/font"
	"golang.org/x/term"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/host/v3"

	"github.com/BeatGlow/sh1106"
	"github.com/BeatGlow/sh1106/draw"
	"github.com/BeatGlow/sh1106/font"
	"github.com/BeatGlow/sh1106/pixel"
	"github.com/BeatGlow/sh1106/sh1106test"
)

const (
	timeFormat = "02/01/2006, 15:04"
	unknownIP  = "Unknown IP"
	splashTime = 2 * time.Second
)

func main() {
	if err := run(); err != nil {
		fatal(err)
	}
}

func run() error {
	busFlag := flag.Int("bus", sh1106.DefaultI2CConfig.Bus, "I²C bus number (-1: use first available)")
	addrFlag := flag.Uint("addr", uint(sh1106.DefaultI2CConfig.Addr), "I²C device address")
	spiFlag := flag.String("spi", "", "SPI port name, such as SPI0.0 (default: use I²C)")
	dcPinFlag := flag.String("dc", sh1106.DefaultDCPin, "Data/Command GPIO pin (DC), SPI only")
	resetPinFlag := flag.String("reset", "", "Reset GPIO pin")
	intervalFlag := flag.Duration("interval", 200*time.Millisecond, "Redraw interval")
	fontFlag := flag.String("font", "5x8", "Bitmap font (5x8 or 4x5)")
	ttfFlag := flag.String("ttf", "", "TrueType font file for the clock")
	ttfSizeFlag := flag.Float64("ttf-size", 12, "TrueType font size in pixels")
	imageFlag := flag.String("image", "", "PNG or BMP image to show at startup")
	emulateFlag := flag.Bool("emulate", false, "Draw on the terminal instead of a display")
	contrastFlag := flag.Uint("contrast", 0, "Contrast level (0: datasheet default)")
	flipFlag := flag.Bool("flip", false, "Rotate the display by 180°")
	borderFlag := flag.Bool("border", false, "Draw a border around the display")
	debugFlag := flag.Bool("debug", false, "Enable debug logging")
	flag.Parse()

	level := slog.LevelInfo
	if *debugFlag {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	f, ok := font.ByName(*fontFlag)
	if !ok {
		return fmt.Errorf("unknown font %q", *fontFlag)
	}
	if *contrastFlag > 0xff {
		return fmt.Errorf("contrast %d out of range", *contrastFlag)
	}

	var face xfont.Face
	if *ttfFlag != "" {
		data, err := os.ReadFile(*ttfFlag)
		if err != nil {
			return err
		}
		if face, err = font.LoadTrueType(data, *ttfSizeFlag); err != nil {
			return err
		}
		defer face.Close()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var (
		config = &sh1106.Config{
			Contrast: uint8(*contrastFlag),
			Logger:   logger,
		}
		conn sh1106.Conn
		emu  *sh1106test.Controller
		err  error
	)
	if *flipFlag {
		config.Rotation = sh1106.Rotate180
	}

	if *emulateFlag {
		emu = sh1106test.New()
		conn = emu
	} else {
		if _, err = host.Init(); err != nil {
			return err
		}
		if *resetPinFlag != "" {
			if config.Reset, err = pinByName(*resetPinFlag); err != nil {
				return err
			}
		}
		if *spiFlag != "" {
			var dc gpio.PinOut
			if dc, err = pinByName(*dcPinFlag); err != nil {
				return err
			}
			conn, err = sh1106.OpenSPI(&sh1106.SPIConfig{
				Name: *spiFlag,
				DC:   dc,
			})
		} else {
			conn, err = sh1106.OpenI2C(&sh1106.I2CConfig{
				Bus:  *busFlag,
				Addr: uint16(*addrFlag),
			})
		}
		if err != nil {
			return err
		}
	}
	logger.Info("using connection", "conn", conn.String())

	display, err := sh1106.New(conn, config)
	if err != nil {
		_ = conn.Close()
		return err
	}
	defer display.Close()
	logger.Info("using driver", "display", display.String(), "font", f.String())

	var out io.Writer = io.Discard
	if emu != nil {
		out = os.Stdout
	}
	show := func() error {
		if err := display.Refresh(); err != nil {
			return err
		}
		if emu != nil {
			return render(emu, out)
		}
		return nil
	}

	if *imageFlag != "" {
		img, err := loadImage(*imageFlag)
		if err != nil {
			return err
		}
		display.DrawImage(img, 0, 0)
		if err = show(); err != nil {
			return err
		}
		select {
		case <-ctx.Done():
			return nil
		case <-time.After(splashTime):
		}
	}

	var (
		ip     = localIP()
		ticker = time.NewTicker(*intervalFlag)
	)
	defer ticker.Stop()
	logger.Info("hit control-c to stop", "ip", ip)

	for {
		display.Clear()
		now := time.Now().Format(timeFormat)
		if face != nil {
			display.DrawTextCentered(face, now, 28, true)
		} else {
			display.DrawStringCentered(f, now, 10, true)
		}
		display.DrawStringCentered(f, ip, 40, true)
		if *borderFlag {
			draw.RoundedRectangle(display, display.Bounds(), 4, pixel.On)
		}
		if err = show(); err != nil {
			return err
		}

		select {
		case <-ctx.Done():
			logger.Debug("stopping", "cause", context.Cause(ctx))
			return nil
		case <-ticker.C:
		}
	}
}

func pinByName(name string) (gpio.PinOut, error) {
	pin := gpioreg.ByName(name)
	if pin == nil {
		return nil, fmt.Errorf("unknown GPIO pin %q", name)
	}
	return pin, nil
}

func loadImage(name string) (image.Image, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", name, err)
	}
	return img, nil
}

// localIP returns the first non-loopback IPv4 address.
func localIP() string {
	addrs, err := net.InterfaceAddrs()
	if err != nil {
		return unknownIP
	}
	for _, addr := range addrs {
		ipnet, ok := addr.(*net.IPNet)
		if !ok {
			continue
		}
		if ip := ipnet.IP.To4(); ip != nil && !ip.IsLoopback() {
			return ip.String()
		}
	}
	return unknownIP
}

// render draws the emulated panel, redrawing in place on a terminal.
func render(c *sh1106test.Controller, w io.Writer) error {
	if f, ok := w.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		if width, _, err := term.GetSize(int(f.Fd())); err == nil && width < sh1106test.Width {
			return errors.New("terminal is too narrow for the emulated display")
		}
		if _, err := io.WriteString(w, "\x1b[H\x1b[2J"); err != nil {
			return err
		}
	}
	return c.Render(w)
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, "fatal: "+err.Error())
	os.Exit(1)
}
