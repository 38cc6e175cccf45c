package codegen

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/resolverkit/resolverkit/internal/compiler/emit"
	"github.com/resolverkit/resolverkit/internal/compiler/handler"
	"github.com/resolverkit/resolverkit/internal/compiler/ir"
	utilstrings "github.com/resolverkit/resolverkit/internal/util/strings"
)

// Scaffold defaults
const (
	DefaultConstructName = "GeneratedResolvers"
	DefaultRuntime       = "JS_1_0_0"
)

// kindConfig is the per-kind wiring of a data source into the construct
type kindConfig struct {
	suffix        string
	constructType string
	namespace     string
	importPath    string
	addMethod     string
}

var kindConfigs = map[ir.DataSourceKind]kindConfig{
	ir.DataSourceLambda: {
		suffix:        "Function",
		constructType: "lambda.IFunction",
		namespace:     "lambda",
		importPath:    "aws-cdk-lib/aws-lambda",
		addMethod:     "addLambdaDataSource",
	},
	ir.DataSourceDynamoDB: {
		suffix:        "Table",
		constructType: "dynamodb.ITable",
		namespace:     "dynamodb",
		importPath:    "aws-cdk-lib/aws-dynamodb",
		addMethod:     "addDynamoDbDataSource",
	},
}

// kindOrder fixes the order imports are emitted in
var kindOrder = []ir.DataSourceKind{ir.DataSourceLambda, ir.DataSourceDynamoDB}

// ScaffoldOptions configures the generated construct
type ScaffoldOptions struct {
	ConstructName string
	Runtime       string
}

func (o ScaffoldOptions) withDefaults() ScaffoldOptions {
	if o.ConstructName == "" {
		o.ConstructName = DefaultConstructName
	}
	if o.Runtime == "" {
		o.Runtime = DefaultRuntime
	}
	return o
}

// ScaffoldDataSource is one deduplicated data source of the construct
type ScaffoldDataSource struct {
	Name     string
	Kind     ir.DataSourceKind
	Property string
	Local    string
}

// DataSourceConflict records a data source referenced under a different kind
// than the one it was first registered with; the first registration is kept
type DataSourceConflict struct {
	Name     string
	Kept     ir.DataSourceKind
	Ignored  ir.DataSourceKind
	Resolver string
}

// ScaffoldPlan is the deduplicated data-source wiring for a set of resolvers
type ScaffoldPlan struct {
	DataSources []ScaffoldDataSource
	Conflicts   []DataSourceConflict
	byName      map[string]int
	taken       map[string]bool
}

// PlanDataSources deduplicates data sources by logical name across resolvers, first seen wins.
// Property names are <variable><Suffix>; a collision with a different data source falls back
// to the logical name, then to a numeric suffix.
func PlanDataSources(resolvers []*ir.ParsedResolver) *ScaffoldPlan {
	plan := &ScaffoldPlan{
		byName: make(map[string]int),
		taken:  make(map[string]bool),
	}

	for _, resolver := range resolvers {
		for _, ref := range resolver.ReferencedDataSources {
			if i, ok := plan.byName[ref.DataSourceName]; ok {
				if kept := plan.DataSources[i].Kind; kept != ref.Kind {
					plan.Conflicts = append(plan.Conflicts, DataSourceConflict{
						Name:     ref.DataSourceName,
						Kept:     kept,
						Ignored:  ref.Kind,
						Resolver: resolver.Address.String(),
					})
				}
				continue
			}

			base := plan.uniqueBase(ref)
			plan.byName[ref.DataSourceName] = len(plan.DataSources)
			plan.DataSources = append(plan.DataSources, ScaffoldDataSource{
				Name:     ref.DataSourceName,
				Kind:     ref.Kind,
				Property: base + kindConfigs[ref.Kind].suffix,
				Local:    base + "DataSource",
			})
		}
	}
	return plan
}

// uniqueBase picks the identifier the property and local names are built from
func (p *ScaffoldPlan) uniqueBase(ref ir.DataSourceRef) string {
	suffix := kindConfigs[ref.Kind].suffix
	for _, candidate := range []string{ref.VariableName, utilstrings.ToCamelCase(ref.DataSourceName)} {
		if candidate != "" && !p.taken[candidate+suffix] {
			p.taken[candidate+suffix] = true
			return candidate
		}
	}

	base := utilstrings.ToCamelCase(ref.DataSourceName)
	if base == "" {
		base = ref.VariableName
	}
	for n := 2; ; n++ {
		candidate := base + strconv.Itoa(n)
		if !p.taken[candidate+suffix] {
			p.taken[candidate+suffix] = true
			return candidate
		}
	}
}

// lookup returns the deduplicated data source for a logical name
func (p *ScaffoldPlan) lookup(name string) ScaffoldDataSource {
	return p.DataSources[p.byName[name]]
}

// GenerateScaffold renders the infrastructure construct wiring every resolver's pipeline
func GenerateScaffold(resolvers []*ir.ParsedResolver, plan *ScaffoldPlan, opts ScaffoldOptions) string {
	opts = opts.withDefaults()
	propsType := opts.ConstructName + "Props"
	runtime := "appsync.FunctionRuntime." + opts.Runtime

	used := make(map[ir.DataSourceKind]bool)
	for _, ds := range plan.DataSources {
		used[ds.Kind] = true
	}

	w := emit.NewWriter()
	w.Line("import { Construct } from 'constructs';")
	w.Line("import * as appsync from 'aws-cdk-lib/aws-appsync';")
	for _, kind := range kindOrder {
		if used[kind] {
			cfg := kindConfigs[kind]
			w.Line("import * as %s from '%s';", cfg.namespace, cfg.importPath)
		}
	}
	w.BlankLine()

	w.Block("export type "+propsType+" =", ";", func() {
		w.Line("api: appsync.GraphqlApi;")
		for _, ds := range plan.DataSources {
			w.Line("%s: %s;", ds.Property, kindConfigs[ds.Kind].constructType)
		}
	})
	w.BlankLine()

	w.Block("export class "+opts.ConstructName+" extends Construct", "", func() {
		w.Block("constructor(scope: Construct, id: string, props: "+propsType+")", "", func() {
			w.Line("super(scope, id);")

			if len(plan.DataSources) > 0 {
				w.BlankLine()
				w.Line("// Data sources")
				for _, ds := range plan.DataSources {
					w.Line("const %s = props.api.%s('%s', props.%s);",
						ds.Local, kindConfigs[ds.Kind].addMethod, ds.Name, ds.Property)
				}
			}

			locals := make(map[string]bool, len(plan.DataSources))
			for _, ds := range plan.DataSources {
				locals[ds.Local] = true
			}
			for _, resolver := range resolvers {
				w.BlankLine()
				w.Line("// %s", resolver.Address)
				writeResolver(w, resolver, plan, locals, runtime)
			}
		})
	})
	return w.String()
}

// writeResolver emits one AppsyncFunction per stage and the pipeline resolver.
// locals holds every const name already declared in the constructor.
func writeResolver(w *emit.Writer, resolver *ir.ParsedResolver, plan *ScaffoldPlan, locals map[string]bool, runtime string) {
	address := resolver.Address
	functions := make([]string, 0, len(resolver.PipelineFunctions))

	for _, fn := range resolver.PipelineFunctions {
		local := uniqueLocal(locals, utilstrings.ToCamelCase(address.TypeName+"_"+address.FieldName+"_"+fn.Name))
		name := FunctionName(address, fn.Name)
		functions = append(functions, local)

		w.Block(fmt.Sprintf("const %s = new appsync.AppsyncFunction(this, '%s',", local, name), ");", func() {
			w.Line("name: '%s',", name)
			w.Line("api: props.api,")
			w.Line("dataSource: %s,", plan.lookup(fn.DataSource.DataSourceName).Local)
			w.Line("code: appsync.Code.fromAsset('%s'),", handler.FunctionFileName(address, fn.Name))
			w.Line("runtime: %s,", runtime)
		})
	}

	w.Block(fmt.Sprintf("props.api.createResolver('%s%s',", address.TypeName, utilstrings.UpperFirst(address.FieldName)), ");", func() {
		w.Line("typeName: '%s',", address.TypeName)
		w.Line("fieldName: '%s',", address.FieldName)
		w.Line("code: appsync.Code.fromAsset('%s'),", handler.ResolverFileName(address))
		w.Line("runtime: %s,", runtime)
		w.Line("pipelineConfig: [%s],", strings.Join(functions, ", "))
	})
}

// uniqueLocal lower-cases the first letter of base and numbers it until unused
func uniqueLocal(taken map[string]bool, base string) string {
	if base == "" {
		base = "fn"
	}
	base = strings.ToLower(base[:1]) + base[1:]
	local := base
	for n := 2; taken[local]; n++ {
		local = base + strconv.Itoa(n)
	}
	taken[local] = true
	return local
}

// FunctionName is the AppSync function name of a stage, restricted to [A-Za-z0-9_]
func FunctionName(address ir.ResolverAddress, stage string) string {
	return utilstrings.ToIdentifier(address.TypeName + "_" + address.FieldName + "_" + stage)
}
