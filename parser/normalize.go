package parser

import (
	"net/netip"
	"strings"

	"github.com/miekg/dns"
)

// Network modifier aliases from uBlock Origin and Adblock Plus.
var modifierAliases = map[string]string{
	"1p":           "~third-party",
	"~3p":          "~third-party",
	"first-party":  "~third-party",
	"3p":           "third-party",
	"~1p":          "third-party",
	"~first-party": "third-party",
	"xhr":          "xmlhttprequest",
	"~xhr":         "~xmlhttprequest",
	"css":          "stylesheet",
	"~css":         "~stylesheet",
	"frame":        "subdocument",
	"~frame":       "~subdocument",
	"doc":          "document",
	"ghide":        "generichide",
	"ehide":        "elemhide",
}

// Modifiers that are dropped without changing what the rule blocks.
var droppedModifiers = map[string]bool{
	"redirect": true,
	"empty":    true,
	"mp4":      true,
}

// Hosts file entries that never name a real host.
var localHosts = map[string]bool{
	"localhost":             true,
	"localhost.localdomain": true,
	"local":                 true,
	"broadcasthost":         true,
	"ip6-localhost":         true,
	"ip6-loopback":          true,
	"ip6-localnet":          true,
	"ip6-mcastprefix":       true,
	"ip6-allnodes":          true,
	"ip6-allrouters":        true,
	"ip6-allhosts":          true,
	"0.0.0.0":               true,
}

// Normalize rewrites one line of uBlock Origin, Adblock Plus or hosts syntax into
// canonical rule lines. A line may expand into several rules or vanish.
// Lines it does not understand are returned unchanged.
func Normalize(line string) []string {
	line = strings.TrimRight(line, " \t\r\n")

	switch {
	case line == "":
		return nil
	case strings.HasPrefix(line, "!"):
		return []string{line}
	case strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]"):
		// [Adblock Plus 2.0]
		return nil
	}

	if hosts, ok := convertHostsLine(line); ok {
		return hosts
	}

	idx, marker := FindCosmeticMarker(line)
	if idx == -1 {
		if strings.HasPrefix(line, "#") {
			// hosts file comment
			return nil
		}
		return convertNetworkRule(line)
	}
	return convertCosmeticRule(line, idx, marker)
}

// convertHostsLine turns "0.0.0.0 a.com b.com" into one blocking rule per host.
func convertHostsLine(line string) ([]string, bool) {
	fields := strings.Fields(line)
	if len(fields) < 2 {
		return nil, false
	}
	if _, err := netip.ParseAddr(fields[0]); err != nil {
		return nil, false
	}

	var result []string
	for _, host := range fields[1:] {
		if strings.HasPrefix(host, "#") {
			break
		}
		host = strings.ToLower(host)
		if localHosts[host] {
			continue
		}
		if _, ok := dns.IsDomainName(host); !ok {
			continue
		}
		result = append(result, "||"+strings.TrimSuffix(host, ".")+"^")
	}
	return result, true
}

func convertNetworkRule(line string) []string {
	prefix := ""
	body := line
	if strings.HasPrefix(body, "@@") {
		prefix = "@@"
		body = body[2:]
	}

	pattern, options := splitOptions(body)
	if options == "" {
		return []string{line}
	}

	var opts []string
	expandAll := false
	for _, opt := range strings.Split(options, ",") {
		name, _, _ := strings.Cut(strings.TrimSpace(opt), "=")
		name = strings.ToLower(name)

		switch {
		case name == "redirect-rule":
			// Only applies when another rule blocks; alone it never blocks.
			return nil
		case droppedModifiers[name]:
			continue
		case name == "all":
			expandAll = true
			continue
		case name == "from":
			_, value, _ := strings.Cut(opt, "=")
			opt = "domain=" + value
		default:
			if alias, ok := modifierAliases[name]; ok {
				opt = alias
			}
		}
		opts = append(opts, opt)
	}

	build := func(extra ...string) string {
		all := append(append([]string(nil), opts...), extra...)
		if len(all) == 0 {
			return prefix + pattern
		}
		return prefix + pattern + "$" + strings.Join(all, ",")
	}

	if !expandAll {
		return []string{build()}
	}
	return []string{build(), build("document"), build("popup")}
}

func convertCosmeticRule(line string, idx int, marker Marker) []string {
	domains := line[:idx]
	content := line[idx+len(marker):]
	if domains == "*" {
		domains = ""
	}

	switch marker {
	case MarkerElementHiding, MarkerElementHidingException:
		exception := marker == MarkerElementHidingException

		if strings.HasPrefix(content, "+js(") && strings.HasSuffix(content, ")") {
			if converted, ok := convertUBOScriptlet(domains, content[len("+js("):len(content)-1], exception); ok {
				return []string{converted}
			}
			return []string{line}
		}

		if converted, ok := convertUBOStyle(domains, content, exception); ok {
			return []string{converted}
		}
	case MarkerCSSInjection:
		if !strings.Contains(content, "{") {
			if converted := convertABPSnippets(domains, content); len(converted) > 0 {
				return converted
			}
			return []string{line}
		}
	}

	return []string{domains + string(marker) + content}
}

// convertUBOScriptlet turns "+js(name, a, b)" into an AdGuard scriptlet call.
func convertUBOScriptlet(domains, inner string, exception bool) (string, bool) {
	args := splitUBOArgs(inner)
	if len(args) == 0 || args[0] == "" {
		return "", false
	}

	name := args[0]
	if !strings.HasSuffix(name, ".js") {
		name += ".js"
	}
	args[0] = "ubo-" + name

	marker := MarkerScript
	if exception {
		marker = MarkerScriptException
	}
	return domains + string(marker) + formatScriptlet(args), true
}

// convertUBOStyle turns "sel:style(decl)" and "sel:remove()" into a style injection.
func convertUBOStyle(domains, content string, exception bool) (string, bool) {
	var selector, style string

	switch {
	case strings.HasSuffix(content, ":remove()"):
		selector = strings.TrimSuffix(content, ":remove()")
		style = "remove: true;"
	case strings.HasSuffix(content, ")") && strings.Contains(content, ":style("):
		i := strings.LastIndex(content, ":style(")
		selector = content[:i]
		style = content[i+len(":style(") : len(content)-1]
	default:
		return "", false
	}

	selector = strings.TrimSpace(selector)
	style = strings.TrimSpace(style)
	if selector == "" || style == "" {
		return "", false
	}

	marker := MarkerCSSInjection
	if exception {
		marker = MarkerCSSInjectionException
	}
	return domains + string(marker) + selector + " { " + style + " }", true
}

// convertABPSnippets turns "snippet a b; other c" into one scriptlet rule per snippet.
func convertABPSnippets(domains, content string) []string {
	var result []string
	for _, snippet := range strings.Split(content, ";") {
		fields := strings.Fields(snippet)
		if len(fields) == 0 {
			continue
		}
		args := append([]string{"abp-" + fields[0]}, unquoteABPArgs(fields[1:])...)
		result = append(result, domains+string(MarkerScript)+formatScriptlet(args))
	}
	return result
}

func unquoteABPArgs(args []string) []string {
	result := make([]string, len(args))
	for i, a := range args {
		if len(a) >= 2 && (a[0] == '\'' || a[0] == '"') && a[len(a)-1] == a[0] {
			a = a[1 : len(a)-1]
		}
		result[i] = a
	}
	return result
}

// splitUBOArgs splits uBO scriptlet arguments on unescaped commas.
func splitUBOArgs(s string) []string {
	var args []string
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+1 < len(s) && s[i+1] == ',' {
			b.WriteByte(',')
			i++
			continue
		}
		if s[i] == ',' {
			args = append(args, strings.TrimSpace(b.String()))
			b.Reset()
			continue
		}
		b.WriteByte(s[i])
	}
	if last := strings.TrimSpace(b.String()); last != "" || len(args) > 0 {
		args = append(args, last)
	}
	return args
}

// formatScriptlet renders //scriptlet('name', 'arg', ...).
func formatScriptlet(args []string) string {
	quoted := make([]string, len(args))
	for i, a := range args {
		quoted[i] = "'" + strings.ReplaceAll(a, "'", `\'`) + "'"
	}
	return scriptletPrefix + strings.Join(quoted, ", ") + ")"
}
