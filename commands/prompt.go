package commands

import (
	"path"
	"regexp"
	"strconv"
	"strings"
)

var (
	unescapeOctal   = regexp.MustCompile(`\\0[0-7][0-7]?[0-7]?`)
	unescapeHex     = regexp.MustCompile(`\\x[0-9a-fA-F][0-9a-fA-F]?`)
	unescapeReplace = strings.NewReplacer(
		`\n`, "\n", // newline
		`\r`, "\r", // carriage return
		`\t`, "\t", // horizontal tab
		`\\`, `\`, // backslash literal
		`\a`, "\a", // alert
		`\e`, "\033", // escape
	)
)

func unescape(s string) string {
	s = unescapeReplace.Replace(s)
	s = unescapeOctal.ReplaceAllStringFunc(s, func(arg string) string {
		out, err := strconv.ParseInt(arg[2:], 8, 16)
		if err != nil {
			return arg
		}
		return string(rune(out))
	})
	s = unescapeHex.ReplaceAllStringFunc(s, func(arg string) string {
		out, err := strconv.ParseInt(arg[2:], 16, 16)
		if err != nil {
			return arg
		}
		return string(rune(out))
	})
	return s
}

// PromptInfo holds the values a prompt can reference.
type PromptInfo struct {
	User string
	Host string
	Dir  string
	Home string
}

// AbbreviateHome replaces a leading home directory in dir with "~".
func AbbreviateHome(dir, home string) string {
	switch {
	case home == "" || home == "/":
		return dir
	case dir == home:
		return "~"
	case strings.HasPrefix(dir, home+"/"):
		return "~" + strings.TrimPrefix(dir, home)
	default:
		return dir
	}
}

// RenderPrompt expands the escapes in format. Substituted values are
// coloured with cp and never unescaped.
func RenderPrompt(format string, info PromptInfo, cp *ColorPrinter) string {
	var out, literal strings.Builder
	flush := func() {
		out.WriteString(unescape(literal.String()))
		literal.Reset()
	}

	for i := 0; i < len(format); i++ {
		if format[i] != '\\' || i+1 == len(format) {
			literal.WriteByte(format[i])
			continue
		}

		var value string
		switch format[i+1] {
		case 'u':
			value = cp.Sprintf(ColorBoldGreen, "%s", info.User)
		case 'h':
			host := strings.SplitN(info.Host, ".", 2)[0]
			value = cp.Sprintf(ColorBoldGreen, "%s", host)
		case 'w':
			value = cp.Sprintf(ColorBoldBlue, "%s", AbbreviateHome(info.Dir, info.Home))
		case 'W':
			dir := AbbreviateHome(info.Dir, info.Home)
			if dir != "~" {
				dir = path.Base(dir)
			}
			value = cp.Sprintf(ColorBoldBlue, "%s", dir)
		case '$':
			value = "$"
			if info.User == "root" {
				value = "#"
			}
		default:
			// Leave the escape for unescape.
			literal.WriteByte('\\')
			literal.WriteByte(format[i+1])
			i++
			continue
		}

		flush()
		out.WriteString(value)
		i++
	}
	flush()

	return out.String()
}

func (s *Shell) promptInfo() PromptInfo {
	host, _ := s.VirtualOS.Hostname()
	dir, err := s.VirtualOS.Getwd()
	if err != nil {
		dir = s.Stack.Top()
	}

	return PromptInfo{
		User: s.VirtualOS.Getenv("USER"),
		Host: host,
		Dir:  dir,
		Home: s.homeDir(),
	}
}

func (s *Shell) prompt() string {
	return RenderPrompt(s.Config.Prompt, s.promptInfo(), s.colors)
}
